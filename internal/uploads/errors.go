package uploads

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrTooLarge       = errors.New("file exceeds size limit")
	ErrUnsupported    = errors.New("unsupported file type")
	ErrUnreadableFile = errors.New("file could not be read")
)
