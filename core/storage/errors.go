package storage

import "errors"

var (
	// ErrInvalidPath means the path escapes the root or is malformed.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidOperation means the operation is not allowed on the target, e.g. deleting the root.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrNotFound means nothing exists at the path.
	ErrNotFound = errors.New("not found")
	// ErrNotDirectory means a directory was expected but a file was found.
	ErrNotDirectory = errors.New("not a directory")
	// ErrEmptyFilename is returned by SaveFile for an empty or dot-only name.
	ErrEmptyFilename = errors.New("empty filename")
)
