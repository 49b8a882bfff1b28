package appdirs

import (
	"os"
	"path/filepath"
)

const appDirName = "noveldrive"

func DataDir() (string, error) {
	if override := os.Getenv("NOVELDRIVE_DATA_DIR"); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, "engine-settings.json")
}
