package collector

import "fmt"

// DataFormatError reports a reading source that cannot be used at all: the
// file could not be opened, or the columns the pipeline needs are missing.
type DataFormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data format error in %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("data format error in %s: %s", e.Source, e.Reason)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

func formatErr(source, reason string, err error) *DataFormatError {
	return &DataFormatError{Source: source, Reason: reason, Err: err}
}
