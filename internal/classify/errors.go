package classify

import "fmt"

// FailureReason identifies why a transaction could not be classified.
type FailureReason string

// Failure reasons.
const (
	ReasonInsufficientData FailureReason = "INSUFFICIENT_DATA"
)

// ClassificationError is a typed classification failure. The pipeline logs
// the reason and drops the event; it is never retried.
type ClassificationError struct {
	Reason FailureReason
	Detail string
}

// Error implements the error interface.
func (e *ClassificationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("classification failed: %s", e.Reason)
	}
	return fmt.Sprintf("classification failed: %s: %s", e.Reason, e.Detail)
}

func insufficientData(detail string) *ClassificationError {
	return &ClassificationError{Reason: ReasonInsufficientData, Detail: detail}
}
