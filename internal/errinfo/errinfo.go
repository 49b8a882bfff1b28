package errinfo

// ErrorInfo is the structured error payload carried over the RPC error
// channel so the frontend can branch on the code without parsing text.
type ErrorInfo struct {
	ErrorCode string `json:"error_code"`
	Phase     string `json:"phase,omitempty"`
	Retryable bool   `json:"retryable"`
	Detail    string `json:"detail,omitempty"`
	Stack     string `json:"stack,omitempty"`
}

const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeInternalFault       = "INTERNAL_FAULT"
	CodeSettingsReadFailed  = "SETTINGS_READ_FAILED"
	CodeSettingsWriteFailed = "SETTINGS_WRITE_FAILED"
	CodeUserCanceled        = "USER_CANCELED"
)

const (
	PhasePatch    = "patch"
	PhaseSettings = "settings"
	PhaseEngine   = "engine"
)

func ValidationFailed(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeValidationFailed,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

// InternalFault reports an unexpected engine failure with its stack so it
// is debuggable from the frontend's logs, never silently swallowed.
func InternalFault(phase, detail, stack string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeInternalFault,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
		Stack:     stack,
	}
}

func SettingsReadFailed(detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeSettingsReadFailed,
		Phase:     PhaseSettings,
		Retryable: true,
		Detail:    detail,
	}
}

func SettingsWriteFailed(detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeSettingsWriteFailed,
		Phase:     PhaseSettings,
		Retryable: true,
		Detail:    detail,
	}
}

func UserCanceled(phase string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeUserCanceled,
		Phase:     phase,
		Retryable: false,
	}
}
