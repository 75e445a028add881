package wizard

import (
	"errors"

	"github.com/hashicorp/go-multierror"
	"github.com/olehluchkiv/epwizard/internal/options"
)

// MissingFieldError names one required field that has no value.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string { return e.Key + ": " + ErrMissingRequired.Error() }

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequired }

// checkRequired returns a multierror with one MissingFieldError per
// required field that has neither a value nor a default.
func checkRequired(fields []options.FieldDescriptor, values map[string]string) error {
	var result *multierror.Error
	for _, f := range fields {
		if !f.Required || f.HasDefault || values[f.Key] != "" {
			continue
		}
		result = multierror.Append(result, &MissingFieldError{Key: f.Key})
	}
	return result.ErrorOrNil()
}

// MissingFields lists the keys of the required fields reported by err.
func MissingFields(err error) []string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var one *MissingFieldError
		if errors.As(err, &one) {
			return []string{one.Key}
		}
		return nil
	}
	var out []string
	for _, e := range merr.Errors {
		var mf *MissingFieldError
		if errors.As(e, &mf) {
			out = append(out, mf.Key)
		}
	}
	return out
}
