package appointment

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string. null and "" leave it unset.
// Anything else is kept so validation can reject it with a field-specific error.
type Number struct {
	raw string
	set bool
}

func NewNumber(v float64) *Number {
	return &Number{raw: strconv.FormatFloat(v, 'f', -1, 64), set: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		*n = Number{raw: s, set: s != ""}
		return nil
	}
	*n = Number{raw: string(b), set: true}
	return nil
}

func (n *Number) MarshalJSON() ([]byte, error) {
	if f, ok := n.Float(); ok {
		return json.Marshal(f)
	}
	return []byte("null"), nil
}

func (n *Number) IsSet() bool { return n != nil && n.set }

// Float returns the finite value, or false when unset or not a number.
func (n *Number) Float() (float64, bool) {
	if !n.IsSet() {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int returns the value when it is a whole number.
func (n *Number) Int() (int, bool) {
	f, ok := n.Float()
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
