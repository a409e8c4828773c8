package domain

import (
	"encoding/json"
	"testing"
)

func TestNormalizeAvailability(t *testing.T) {
	cases := []struct {
		name    string
		v       any
		present bool
		want    bool
	}{
		{"absent", nil, false, false},
		{"null", nil, true, false},
		{"checkbox marker", "on", true, true},
		{"bool true", true, true, true},
		{"bool false", false, true, false},
		{"empty string", "", true, false},
		{"string false is present", "false", true, true},
		{"string off is present", "off", true, true},
		{"string zero is present", "0", true, true},
		{"other string", "yes", true, true},
		{"number one", float64(1), true, true},
		{"number zero", float64(0), true, false},
		{"object", map[string]any{}, true, true},
		{"absent ignores value", "on", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAvailability(tc.v, tc.present)
			if got != tc.want {
				t.Fatalf("NormalizeAvailability(%v, %v) = %v, want %v", tc.v, tc.present, got, tc.want)
			}
			if again := NormalizeAvailability(got, true); again != got {
				t.Fatalf("not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestCheckbox_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Available Checkbox `json:"available"`
	}

	for body, want := range map[string]bool{
		`{}`:                      false,
		`{"available":null}`:      false,
		`{"available":"on"}`:      true,
		`{"available":true}`:      true,
		`{"available":false}`:     false,
		`{"available":1}`:         true,
		`{"available":"false"}`:   true,
		`{"available":"off"}`:     true,
		`{"available":""}`:        false,
		`{"available":0}`:         false,
		`{"available":"checked"}`: true,
	} {
		payload.Available = false
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("%s: unmarshal: %v", body, err)
		}
		if bool(payload.Available) != want {
			t.Fatalf("%s: got %v, want %v", body, payload.Available, want)
		}
	}
}

func TestCheckbox_UnmarshalParam(t *testing.T) {
	var c Checkbox
	if err := c.UnmarshalParam("on"); err != nil || !bool(c) {
		t.Fatalf("expected true for \"on\", got %v (%v)", c, err)
	}
	if err := c.UnmarshalParam(""); err != nil || bool(c) {
		t.Fatalf("expected false for empty value, got %v (%v)", c, err)
	}
}
