package pricing

import "fmt"

// ErrInvalidContract is returned when a contract parameter is outside the
// model's domain (S ≤ 0, K ≤ 0, σ ≤ 0, T ≤ 0, or a non-finite value).
type ErrInvalidContract struct {
	Field  string  // offending parameter, e.g. "years_to_expiry"
	Value  float64 // the rejected value
	Reason string  // e.g. "must be > 0"
}

func (e *ErrInvalidContract) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid contract parameter %q: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid contract parameter %q: %v (%s)", e.Field, e.Value, e.Reason)
}

// ErrNumericOverflow is returned when extreme but individually valid inputs
// push an intermediate or final value outside the representable range. It is
// distinct from ErrInvalidContract so callers can tell a bad parameter from a
// pathological combination.
type ErrNumericOverflow struct {
	Stage string // computation stage, e.g. "d1", "discount", "price"
}

func (e *ErrNumericOverflow) Error() string {
	return fmt.Sprintf("numeric overflow computing %s", e.Stage)
}
