package abr

import (
	"errors"
	"fmt"
)

// ErrDisposed is returned when a brush or brush collection is accessed
// after its Dispose method has been called.
var ErrDisposed = errors.New("abr: brush collection disposed")

// FormatError reports structural data the decoder cannot interpret: an
// unsupported file version or an unknown descriptor type tag. It aborts
// the entire load; no partial collection is returned.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("abr: %s", e.Msg)
}

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// TruncatedDataError reports a read that requested more bytes than the
// stream contains.
type TruncatedDataError struct {
	Offset int64 // stream position where the read started
	Want   int   // number of bytes requested
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("abr: truncated data: %d bytes requested at offset %d", e.Want, e.Offset)
}
