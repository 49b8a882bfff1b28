// Package engine wires the patch pipeline to the RPC boundary. The engine
// is stateless across invocations: every request owns its own working copy
// of the document and nothing persists between calls except the settings
// file.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tokoroten/NovelDrive-sub008/internal/appdirs"
	"github.com/tokoroten/NovelDrive-sub008/internal/envutil"
	"github.com/tokoroten/NovelDrive-sub008/internal/errinfo"
	"github.com/tokoroten/NovelDrive-sub008/internal/logging"
	"github.com/tokoroten/NovelDrive-sub008/internal/patch"
	"github.com/tokoroten/NovelDrive-sub008/internal/settings"
)

const (
	EngineVersion = "0.1.0"
	APIVersion    = "1"
)

// thresholdEnvVar overrides the persisted default similarity threshold.
const thresholdEnvVar = "NOVELDRIVE_MATCH_THRESHOLD"

type Notifier func(method string, params any)

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithDataDir(dir string) Option {
	return func(e *Engine) { e.dataDir = dir }
}

type Engine struct {
	dataDir  string
	settings *settings.Store
	notify   Notifier
	logger   *slog.Logger
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{logger: logging.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.dataDir == "" {
		dataDir, err := appdirs.DataDir()
		if err != nil {
			return nil, err
		}
		e.dataDir = dataDir
	}
	e.settings = settings.NewStore(appdirs.SettingsPath(e.dataDir))
	return e, nil
}

func (e *Engine) SetNotifier(notify Notifier) {
	e.notify = notify
}

func (e *Engine) EngineGetInfo(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	return map[string]any{
		"engine_version":    EngineVersion,
		"api_version":       APIVersion,
		"default_threshold": e.defaultThreshold(),
	}, nil
}

// defaultThreshold resolves the similarity floor used when a request omits
// one: the env override beats persisted settings, which beat the built-in
// default.
func (e *Engine) defaultThreshold() float64 {
	value := patch.DefaultThreshold
	if loaded, err := e.settings.Load(); err == nil {
		value = loaded.MatchThreshold
	} else {
		e.logger.Warn("settings.load_failed", "error", err.Error())
	}
	value = envutil.Float(thresholdEnvVar, value)
	if value <= 0 || value > 1 {
		return patch.DefaultThreshold
	}
	return value
}
