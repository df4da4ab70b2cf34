package testenv

import (
	"encoding/json"
	"testing"
)

// FromJSON unmarshals a JSON document into ptr, failing the test on error.
func FromJSON(t testing.TB, j string, ptr any) {
	t.Helper()
	if e := json.Unmarshal([]byte(j), ptr); e != nil {
		t.Fatalf("FromJSON(%q): %v", j, e)
	}
}

// ToJSON marshals a value, failing the test on error.
func ToJSON(t testing.TB, v any) string {
	t.Helper()
	j, e := json.Marshal(v)
	if e != nil {
		t.Fatalf("ToJSON(%T): %v", v, e)
	}
	return string(j)
}
