package selection

import (
	"fmt"

	"pos/internal/pkg/errs"
)

// Warning is a non-fatal rejection shown to the cashier. The selection is left
// exactly as it was when a Warning is returned.
type Warning struct {
	Message string
	cause   error
}

func (w *Warning) Error() string {
	return w.Message
}

func (w *Warning) Unwrap() error {
	return w.cause
}

func limitWarning(param string, limit int, format string, args ...any) *Warning {
	return &Warning{
		Message: fmt.Sprintf(format, args...),
		cause:   errs.NewLimitExceededError(param, limit),
	}
}

func requiredWarning(param, message string) *Warning {
	return &Warning{Message: message, cause: errs.NewValueIsRequiredError(param)}
}
