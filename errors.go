package neuralnet

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables, and can be compared against the
// result of errors.Cause.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned.
var (
	ErrUnknownType       = Error{"Type is not recognized"}
	ErrDuplicateType     = Error{"Type is already registered"}
	ErrNilFactory        = Error{"Factory function is nil"}
	ErrNoValidation      = Error{"Dataset has no validation instances"}
	ErrNotLeastSquares   = Error{"Performance term does not provide a term vector"}
	ErrNotDifferentiable = Error{"Network has an activation function that is not differentiable"}
	ErrNoSensitivity     = Error{"Mathematical model cannot provide sensitivities"}
	ErrNotAttached       = Error{"Layer is not attached to the Network"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError is returned whenever a slice given to the Network (or to one of its layers)
// does not have the length that the Network expects.
type SizeMismatchError struct {
	Expected, Got int
	What          string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Size of %s does not match, expected %d but got %d", err.What, err.Expected, err.Got)
}

// ConfigError marks errors in the way a Network, a performance term or a training algorithm has
// been configured: mismatched layer widths, missing layers a term depends upon, unattached
// collaborators and the like. Configuration errors are always raised before any numeric work.
type ConfigError struct{ msg string }

func (err ConfigError) Error() string {
	return err.msg
}

// NumericError marks errors in the numeric preconditions of an evaluation, such as a zero
// normalization coefficient or targets outside of the range a term accepts.
type NumericError struct{ msg string }

func (err NumericError) Error() string {
	return err.msg
}

// ConfigErrorf formats a new ConfigError, with a stack trace attached.
func ConfigErrorf(format string, args ...interface{}) error {
	return errors.WithStack(ConfigError{fmt.Sprintf(format, args...)})
}

// NumericErrorf formats a new NumericError, with a stack trace attached.
func NumericErrorf(format string, args ...interface{}) error {
	return errors.WithStack(NumericError{fmt.Sprintf(format, args...)})
}

// IsConfigError returns whether or not the root cause of err is a configuration error. Nil
// arguments and size mismatches are treated as configuration errors.
func IsConfigError(err error) bool {
	switch errors.Cause(err).(type) {
	case ConfigError, NilArgError, SizeMismatchError:
		return true
	}

	return false
}

// IsNumericError returns whether or not the root cause of err is a NumericError.
func IsNumericError(err error) bool {
	_, ok := errors.Cause(err).(NumericError)
	return ok
}
