package domain

import "encoding/json"

// NormalizeAvailability turns an availability value, as sent by an HTML
// checkbox or a JSON client, into a strict boolean.
//
//	absent / nil       → false
//	"on"               → true   (checked checkbox)
//	true / false       → unchanged
//	"", 0              → false
//	anything else      → true   (any non-empty string, e.g. "off")
func NormalizeAvailability(v any, present bool) bool {
	if !present {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case Checkbox:
		return bool(t)
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// Checkbox is an availability flag decoded with NormalizeAvailability.
// It accepts JSON booleans, strings and numbers, and form/query values.
// A missing field leaves it at its zero value, false.
type Checkbox bool

// UnmarshalJSON implements json.Unmarshaler.
func (c *Checkbox) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Checkbox(NormalizeAvailability(v, true))
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for form and query binding.
func (c *Checkbox) UnmarshalParam(param string) error {
	*c = Checkbox(NormalizeAvailability(param, true))
	return nil
}
