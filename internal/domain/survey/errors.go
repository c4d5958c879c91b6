package survey

import "errors"

var (
	ErrParkNotFound        = errors.New("industrial park not found")
	ErrBuildingNotFound    = errors.New("building not found")
	ErrObservationNotFound = errors.New("observation not found")
	ErrInvalidMediaType    = errors.New("media type is not allowed")
	ErrEmptyFile           = errors.New("file is empty")
	ErrMissingFilename     = errors.New("missing filename")
)
