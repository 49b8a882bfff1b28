package engine

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tokoroten/NovelDrive-sub008/internal/errinfo"
)

// validatePatchParams type-checks a patch request before any algorithmic
// work. A loosely shaped payload short-circuits to a single validation
// error; it never reaches the matcher.
func validatePatchParams(params json.RawMessage) *errinfo.ErrorInfo {
	if len(params) == 0 {
		return errinfo.ValidationFailed(errinfo.PhasePatch, "missing params")
	}
	if !gjson.ValidBytes(params) {
		return errinfo.ValidationFailed(errinfo.PhasePatch, "params is not valid json")
	}
	root := gjson.ParseBytes(params)
	if !root.IsObject() {
		return errinfo.ValidationFailed(errinfo.PhasePatch, "params must be an object")
	}

	content := root.Get("content")
	if !content.Exists() || content.Type != gjson.String {
		return errinfo.ValidationFailed(errinfo.PhasePatch, "content must be a string")
	}

	diffs := root.Get("diffs")
	if !diffs.Exists() || !diffs.IsArray() {
		return errinfo.ValidationFailed(errinfo.PhasePatch, "diffs must be an array")
	}
	var elemErr *errinfo.ErrorInfo
	diffs.ForEach(func(i, value gjson.Result) bool {
		if !value.IsObject() {
			elemErr = errinfo.ValidationFailed(errinfo.PhasePatch, fmt.Sprintf("diffs[%d] must be an object", i.Int()))
			return false
		}
		for _, key := range []string{"oldText", "newText"} {
			field := value.Get(key)
			if field.Exists() && field.Type != gjson.String {
				elemErr = errinfo.ValidationFailed(errinfo.PhasePatch, fmt.Sprintf("diffs[%d].%s must be a string", i.Int(), key))
				return false
			}
		}
		return true
	})
	if elemErr != nil {
		return elemErr
	}

	threshold := root.Get("threshold")
	if threshold.Exists() {
		if threshold.Type != gjson.Number {
			return errinfo.ValidationFailed(errinfo.PhasePatch, "threshold must be a number")
		}
		if value := threshold.Float(); value < 0 || value > 1 {
			return errinfo.ValidationFailed(errinfo.PhasePatch, "threshold must be within [0,1]")
		}
	}
	return nil
}
