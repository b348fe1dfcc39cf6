package risk

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Policy decides what happens to missing, non-numeric and out-of-range input
// before scoring.
type Policy string

const (
	// PolicyCoerce treats missing or non-numeric values as 0 and keeps
	// out-of-range values. This is how the dashboard pages always behaved.
	PolicyCoerce Policy = "coerce"
	// PolicyClamp treats missing or non-numeric values as 0 and clamps
	// out-of-range values into the field domain.
	PolicyClamp Policy = "clamp"
	// PolicyStrict rejects missing required fields, non-numeric values and
	// out-of-range values with a ValidationError.
	PolicyStrict Policy = "strict"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyCoerce, PolicyClamp, PolicyStrict:
		return p, nil
	}
	return "", fmt.Errorf("invalid risk input policy %q (allowed: coerce, clamp, strict)", s)
}

// ValidationError reports a malformed or out-of-range field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

const reasonMissing = "missing required field"

// Missing reports whether the field was required but absent.
func (e *ValidationError) Missing() bool {
	return e.Reason == reasonMissing
}

// ValidationErrors flattens err, including errors.Join trees, into its
// ValidationErrors in order.
func ValidationErrors(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *ValidationError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}

// IsValidation reports whether err carries at least one ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Apply normalises in according to p. required lists the field keys that
// must be present under PolicyStrict; it is ignored by the other policies.
// Several failures are combined with errors.Join in field table order.
func (p Policy) Apply(in Input, required []Field) (Reading, error) {
	r := in.Reading.Clone()

	switch p {
	case PolicyCoerce:
		return r, nil

	case PolicyClamp:
		for _, f := range fields {
			if v := *f.ref(&r); v != nil {
				r.set(f, f.Clamp(*v))
			}
		}
		return r, nil

	case PolicyStrict:
		var errs []error
		invalid := make([]string, 0, len(in.Invalid))
		for k := range in.Invalid {
			invalid = append(invalid, k)
		}
		sort.Strings(invalid)
		for _, k := range invalid {
			errs = append(errs, &ValidationError{Field: k, Reason: fmt.Sprintf("not a number: %q", in.Invalid[k])})
		}
		for _, f := range required {
			if _, bad := in.Invalid[f.Key]; bad {
				continue
			}
			if *f.ref(&r) == nil {
				errs = append(errs, &ValidationError{Field: f.Key, Reason: reasonMissing})
			}
		}
		for _, f := range fields {
			v := *f.ref(&r)
			if v != nil && !f.InRange(*v) {
				errs = append(errs, &ValidationError{
					Field:  f.Key,
					Reason: fmt.Sprintf("%g out of range [%g, %g]", *v, f.Min, f.Max),
				})
			}
		}
		if len(errs) > 0 {
			return Reading{}, errors.Join(errs...)
		}
		return r, nil
	}

	return Reading{}, fmt.Errorf("unknown risk input policy %q", string(p))
}
