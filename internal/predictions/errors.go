package predictions

import "fmt"

// DataFormatError reports a prediction source that cannot be used: unreadable,
// missing a required column, or holding a value that does not parse.
type DataFormatError struct {
	Source string
	Line   int // 0 when the problem is not tied to a row
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("prediction data %s", e.Source)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}
