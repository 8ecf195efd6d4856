package tracker

import "errors"

// Sentinel errors for tracker operations.
var (
	ErrBlankTitle        = errors.New("title must not be blank")
	ErrBlankName         = errors.New("name must not be blank")
	ErrTaskNotFound      = errors.New("task not found")
	ErrIndicatorNotFound = errors.New("indicator not found")
	ErrUnknownCategory   = errors.New("unknown category indicator")
	ErrInvalidInput      = errors.New("invalid input")
)
