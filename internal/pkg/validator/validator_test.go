package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := map[string]time.Time{
		"2025-11-20T08:30:00Z":          time.Date(2025, 11, 20, 8, 30, 0, 0, time.UTC),
		"2025-11-20T08:30:00.000Z":      time.Date(2025, 11, 20, 8, 30, 0, 0, time.UTC),
		"2025-11-20T15:30:00.250+07:00": time.Date(2025, 11, 20, 8, 30, 0, 250*int(time.Millisecond), time.UTC),
	}
	invalid := []string{"2025-11-20", "2025-11-20 08:30:00", "08:30", ""}
	for s, want := range valid {
		got, ok := IsValidDateTime(s)
		if !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("IsValidDateTime(%q) = %v, want %v", s, got, want)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidCoordinates(t *testing.T) {
	for _, lat := range []float64{-90, -12.046374, 0, 90} {
		if !IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = false, want true", lat)
		}
	}
	for _, lat := range []float64{-90.0001, 91, 180} {
		if IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%v) = true, want false", lat)
		}
	}
	for _, lon := range []float64{-180, -77.042793, 0, 180} {
		if !IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = false, want true", lon)
		}
	}
	for _, lon := range []float64{-180.5, 181} {
		if IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%v) = true, want false", lon)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "invalid"},
		{Field: "recorded_at", Message: "required"},
	}
	got := errs.Error()
	want := "latitude: invalid; recorded_at: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "invalid"},
		{Field: "recorded_at", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"latitude": "invalid", "recorded_at": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
