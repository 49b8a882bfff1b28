package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tokoroten/NovelDrive-sub008/internal/diff"
	"github.com/tokoroten/NovelDrive-sub008/internal/errinfo"
	"github.com/tokoroten/NovelDrive-sub008/internal/patch"
)

type patchParams struct {
	Content   string       `json:"content"`
	Diffs     []patch.Edit `json:"diffs"`
	Threshold *float64     `json:"threshold"`
}

// PatchApply matches and applies a batch of edits against the supplied
// document. One PatchProgress notification goes out when processing starts;
// the full per-edit outcome list arrives in the response, in request order.
func (e *Engine) PatchApply(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	_, result, errInfo := e.applyPatch(ctx, params)
	if errInfo != nil {
		return nil, errInfo
	}
	return map[string]any{
		"content": result.Content,
		"results": result.Outcomes,
	}, nil
}

// PatchPreview runs the same pipeline as PatchApply but also renders a line
// diff of before vs. after for the review pane. Nothing is persisted either
// way; the frontend decides what to do with the result.
func (e *Engine) PatchPreview(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	req, result, errInfo := e.applyPatch(ctx, params)
	if errInfo != nil {
		return nil, errInfo
	}
	lines, truncated := diff.LinesWithLimit(req.Content, result.Content, 0)
	return map[string]any{
		"content":        result.Content,
		"results":        result.Outcomes,
		"diff_lines":     lines,
		"diff_truncated": truncated,
	}, nil
}

func (e *Engine) applyPatch(ctx context.Context, params json.RawMessage) (patchParams, patch.Result, *errinfo.ErrorInfo) {
	var req patchParams
	if errInfo := validatePatchParams(params); errInfo != nil {
		return req, patch.Result{}, errInfo
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return req, patch.Result{}, errinfo.ValidationFailed(errinfo.PhasePatch, "invalid params")
	}
	threshold := e.defaultThreshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	if e.notify != nil {
		e.notify("PatchProgress", map[string]any{
			"message": fmt.Sprintf("matching %d edits", len(req.Diffs)),
		})
	}

	started := time.Now()
	result, err := patch.Apply(ctx, req.Content, req.Diffs, threshold)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return req, patch.Result{}, errinfo.UserCanceled(errinfo.PhasePatch)
		}
		return req, patch.Result{}, errinfo.InternalFault(errinfo.PhasePatch, err.Error(), "")
	}

	applied := 0
	for _, outcome := range result.Outcomes {
		if outcome.Applied {
			applied++
		}
	}
	e.logger.Info("patch.apply",
		"edits", len(req.Diffs),
		"applied", applied,
		"threshold", threshold,
		"content_bytes", len(req.Content),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return req, result, nil
}
