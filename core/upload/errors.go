package upload

import "errors"

var (
	// ErrValidationFailed wraps every rejection reason below.
	ErrValidationFailed = errors.New("invalid file type")

	ErrExtensionNotAllowed   = errors.New("extension not allowed")
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrUnknownSignature      = errors.New("content signature not recognized")
	ErrSignatureMismatch     = errors.New("content does not match extension")
)
