package fairval

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-12-31", "2024-12-31", false},
		{"2024-7-1", "2024-07-01", false},
		{"31-12-2024", "", true},
		{"not a date", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.String() != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2023, 12, 31)
	b := NewDate(2024, 12, 31)
	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before() is inconsistent for %s and %s", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("After() is inconsistent for %s and %s", a, b)
	}
	if a.After(a) || a.Before(a) {
		t.Errorf("a date compares before or after itself")
	}
}

func TestDateJSON(t *testing.T) {
	d := MustParseDate("2024-12-31")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() unexpected error = %v", err)
	}
	if string(b) != `"2024-12-31"` {
		t.Errorf("Marshal() = %s, want %q", b, "2024-12-31")
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() unexpected error = %v", err)
	}
	if back != d {
		t.Errorf("Unmarshal() = %s, want %s", back, d)
	}
}
