package sop

import "fmt"

// ParseError reports a structural problem in an SOP document. The message
// details why parsing failed; finer-grained reporting such as source line
// numbers may be added later if requested.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}
