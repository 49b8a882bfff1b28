package engine

import (
	"context"
	"encoding/json"

	"github.com/tokoroten/NovelDrive-sub008/internal/errinfo"
	"github.com/tokoroten/NovelDrive-sub008/internal/settings"
)

func (e *Engine) SettingsGet(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	loaded, err := e.settings.Load()
	if err != nil {
		return nil, errinfo.SettingsReadFailed(err.Error())
	}
	return map[string]any{"match_threshold": loaded.MatchThreshold}, nil
}

func (e *Engine) SettingsSetThreshold(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		MatchThreshold float64 `json:"match_threshold"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, errinfo.ValidationFailed(errinfo.PhaseSettings, "invalid params")
	}
	if req.MatchThreshold <= 0 || req.MatchThreshold > 1 {
		return nil, errinfo.ValidationFailed(errinfo.PhaseSettings, "match_threshold must be within (0,1]")
	}
	updated, err := e.settings.Update(func(s *settings.Settings) {
		s.MatchThreshold = req.MatchThreshold
	})
	if err != nil {
		return nil, errinfo.SettingsWriteFailed(err.Error())
	}
	if e.notify != nil {
		e.notify("SettingsChanged", map[string]any{"match_threshold": updated.MatchThreshold})
	}
	return map[string]any{"match_threshold": updated.MatchThreshold}, nil
}
