package errno

import "fmt"

// BizError attaches an underlying cause to a business error code.
type BizError struct {
	Errno *Errno
	Cause error
}

// NewBizError wraps a cause under a business code.
func NewBizError(code *Errno, cause error) *BizError {
	return &BizError{Errno: code, Cause: cause}
}

func (e *BizError) Error() string {
	if e.Cause == nil {
		return e.Errno.Message
	}
	return fmt.Sprintf("%s: %v", e.Errno.Message, e.Cause)
}

func (e *BizError) Unwrap() error {
	return e.Cause
}

// CodeOf resolves the business code behind an error, defaulting to ErrUnknown.
func CodeOf(err error) *Errno {
	switch v := err.(type) {
	case *Errno:
		return v
	case *BizError:
		return v.Errno
	default:
		return ErrUnknown
	}
}
