package pipeline

// Status is the three-way outcome every stage must report.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// StageResult is the structured outcome of one stage. Stages catch their own
// failures and return a result; errors never propagate across stage
// boundaries, so the executor only ever branches on Status.
type StageResult struct {
	Status  Status
	Message string
	Details map[string]any
	Err     error
}

// Success builds a clean result.
func Success(details map[string]any) StageResult {
	return StageResult{Status: StatusSuccess, Details: details}
}

// Warning builds a degraded-but-usable result.
func Warning(message string, details map[string]any) StageResult {
	return StageResult{Status: StatusWarning, Message: message, Details: details}
}

// Failure builds an error result. details may be nil.
func Failure(err error, details map[string]any) StageResult {
	return StageResult{Status: StatusError, Message: err.Error(), Details: details, Err: err}
}
