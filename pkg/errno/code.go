package errno

// code=0 request succeeded
// code=4xx client errors
// code=5xx server errors
// code=2xxxx business errors

type Errno struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized = &Errno{Code: 401, Message: "Unauthorized"}
	ErrForbidden    = &Errno{Code: 403, Message: "Forbidden"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// Submission validation errors. The batch is rejected as a whole with no
	// side effects; no credit is debited.
	ErrUserUUIDRequired     = &Errno{Code: 20013, Message: "User UUID is required"}
	ErrVideoUUIDRequired    = &Errno{Code: 20014, Message: "Video UUID is required"}
	ErrEmptyBatch           = &Errno{Code: 20020, Message: "Segment batch is empty"}
	ErrSegmentNameRequired  = &Errno{Code: 20021, Message: "Segment name is required"}
	ErrSegmentNameDuplicate = &Errno{Code: 20022, Message: "Segment names must be unique within a batch"}
	ErrInvalidTimeRange     = &Errno{Code: 20023, Message: "Segment end time must be greater than start time"}
	ErrTimeRangeOutOfBounds = &Errno{Code: 20024, Message: "Segment time range exceeds source video duration"}
	ErrVideoNotFound        = &Errno{Code: 20025, Message: "Source video not found"}
	ErrVideoNotReady        = &Errno{Code: 20026, Message: "Source video is not ready for processing"}

	// Admission control.
	ErrInsufficientCredits = &Errno{Code: 20030, Message: "Insufficient credits"}

	// Segment pipeline.
	ErrSegmentNotFound      = &Errno{Code: 20031, Message: "Segment not found"}
	ErrSegmentUUIDRequired  = &Errno{Code: 20032, Message: "Segment UUID is required"}
	ErrInvalidSegmentState  = &Errno{Code: 20033, Message: "Segment is not in a valid state for this operation"}
	ErrBackgroundRequired   = &Errno{Code: 20034, Message: "Background asset UUID is required"}
	ErrBackgroundNotFound   = &Errno{Code: 20035, Message: "Background asset not found"}
	ErrQueueFull            = &Errno{Code: 20036, Message: "Pipeline queue is full"}
	ErrSourceVideoRequired  = &Errno{Code: 20037, Message: "Source video metadata is incomplete"}
	ErrInvalidVideoDuration = &Errno{Code: 20038, Message: "Source video duration must be positive"}
)
