package schedule

import "fmt"

// Error is the schedule package's error taxonomy, mirroring the shape of the
// invalid-step/invalid-name/io/yaml/json variants a schedule can fail on.
type Error struct {
	Kind   ErrorKind
	Detail string
}

// ErrorKind distinguishes the category of a schedule Error.
type ErrorKind int

// Error kinds. HTTP boundaries translate these to status codes: InvalidStep
// and InvalidName are 4xx, IOError is either 404 (not found) or 500
// depending on cause, and YAML/JSON are 500.
const (
	InvalidStep ErrorKind = iota
	InvalidName
	IOError
	InvalidYAML
	InvalidJSON
)

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidStep:
		return fmt.Sprintf("invalid step: %s", e.Detail)
	case InvalidName:
		return fmt.Sprintf("invalid name: %s", e.Detail)
	case IOError:
		return fmt.Sprintf("error reading %s", e.Detail)
	case InvalidYAML:
		return fmt.Sprintf("error reading yaml: %s", e.Detail)
	case InvalidJSON:
		return fmt.Sprintf("error reading json: %s", e.Detail)
	default:
		return e.Detail
	}
}

func invalidStepf(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidStep, Detail: fmt.Sprintf(format, args...)}
}

func invalidNamef(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidName, Detail: fmt.Sprintf(format, args...)}
}
