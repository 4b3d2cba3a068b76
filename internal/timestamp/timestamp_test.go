package timestamp

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1989-11-09", time.Date(1989, 11, 9, 0, 0, 0, 0, time.UTC)},
		{"1989-11-09T18:53:00", time.Date(1989, 11, 9, 18, 53, 0, 0, time.UTC)},
		{"1989-11-09T18:53:00.250000", time.Date(1989, 11, 9, 18, 53, 0, 250000000, time.UTC)},
		{"1989-11-09 18:53:00", time.Date(1989, 11, 9, 18, 53, 0, 0, time.UTC)},
		{"1989-11-09T18:53", time.Date(1989, 11, 9, 18, 53, 0, 0, time.UTC)},
		{"1989-11-09T18:53:00Z", time.Date(1989, 11, 9, 18, 53, 0, 0, time.UTC)},
		{"1989-11-09T19:53:00+01:00", time.Date(1989, 11, 9, 18, 53, 0, 0, time.UTC)},
		{" 1947-01-01 ", time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Parse(%q) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "1989-13-01", "09/11/1989", "1989-11-09T25:00:00"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
		if Valid(in) {
			t.Errorf("Valid(%q) = true", in)
		}
	}
}

func TestStorage(t *testing.T) {
	in := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))
	got := Storage(in)
	want := time.Date(2024, 3, 1, 11, 0, 0, 123456000, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("Storage(%v) = %v, want %v", in, got, want)
	}
}
