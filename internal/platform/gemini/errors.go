package gemini

import "errors"

// ErrEmptyContent is returned when there is no study material to send.
var ErrEmptyContent = errors.New("content cannot be empty")
