package record

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignoreHidden = cmpopts.IgnoreUnexported(Sample{})

func TestCodec_RoundTrip(t *testing.T) {
	stamp := time.Date(2024, 3, 9, 14, 5, 59, 0, time.UTC)
	in := &Sample{
		Flag:   ptr(true),
		Small:  ptr(int16(-12)),
		Medium: ptr(int32(70000)),
		Large:  ptr(int64(1) << 40),
		Single: ptr(float32(1.5)),
		Double: ptr(3.25),
		Label:  ptr("hello"),
		Stamp:  &stamp,
		Status: ptr(StatusArchived),
	}

	values, err := Extract(in)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	out := &Sample{}
	if err := Populate(rowFrom(values, int64(9)), out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	in.ID = ptr(int64(9))
	if diff := cmp.Diff(in, out, ignoreHidden); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_NullEncoding(t *testing.T) {
	values, err := Extract(&Sample{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := map[string]any{
		"flag":   nil,
		"small":  "",
		"medium": "",
		"large":  "",
		"single": "",
		"double": "",
		"label":  "",
		"stamp":  nil,
		"status": nil,
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_NullRoundTrip(t *testing.T) {
	values, err := Extract(&Sample{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	out := &Sample{}
	if err := Populate(rowFrom(values, int64(1)), out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}

	// A nil string reads back as the empty string; every other kind stays nil.
	want := &Sample{Model: Model{ID: ptr(int64(1))}, Label: ptr("")}
	if diff := cmp.Diff(want, out, ignoreHidden); diff != "" {
		t.Errorf("null round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_PlainValues(t *testing.T) {
	in := &Plain{
		Total:  -3,
		Ratio:  0.5,
		Active: true,
		Title:  "report",
		Day:    time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		Level:  StatusActive,
	}
	values, err := Extract(in)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if values["active"] != int64(1) {
		t.Errorf("active = %#v, want int64(1)", values["active"])
	}
	if values["day"] != "1999-12-31 23:59:59" {
		t.Errorf("day = %#v, want %q", values["day"], "1999-12-31 23:59:59")
	}

	out := &Plain{}
	if err := Populate(rowFrom(values, nil), out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_NullIntoPlainField(t *testing.T) {
	out := &Plain{Total: 7, Title: "keep", Active: true}
	row := NewRow([]string{"total", "title_text", "active"}, []any{nil, nil, ""})
	if err := Populate(row, out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if out.Total != 0 || out.Title != "" || out.Active {
		t.Errorf("Populate() = %+v, want zero values", out)
	}
}

func TestCodec_Bool(t *testing.T) {
	tests := []struct {
		stored any
		want   bool
	}{
		{int64(1), true},
		{int64(0), false},
		{int64(2), false},
		{"1", true},
	}

	for _, tt := range tests {
		out := &Sample{}
		if err := Populate(NewRow([]string{"flag"}, []any{tt.stored}), out); err != nil {
			t.Fatalf("Populate(%#v) error = %v", tt.stored, err)
		}
		if out.Flag == nil || *out.Flag != tt.want {
			t.Errorf("flag from %#v = %v, want %v", tt.stored, out.Flag, tt.want)
		}
	}
}

func TestCodec_Enum(t *testing.T) {
	tests := []struct {
		name   string
		stored any
		want   *Status
	}{
		{"first ordinal", int64(0), ptr(StatusDraft)},
		{"last ordinal", int64(2), ptr(StatusArchived)},
		{"past the last ordinal", int64(3), nil},
		{"negative ordinal", int64(-1), nil},
		{"blank", "", nil},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &Sample{Status: ptr(StatusActive)}
			if err := Populate(NewRow([]string{"status"}, []any{tt.stored}), out); err != nil {
				t.Fatalf("Populate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, out.Status); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodec_MalformedTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		stored any
	}{
		{"date only", "2024-03-09"},
		{"ISO separator", "2024-03-09T14:05:59"},
		{"fractional seconds", "2024-03-09 14:05:59.250"},
		{"zone suffix", "2024-03-09 14:05:59Z"},
		{"garbage", "yesterday"},
		{"blank", ""},
		{"month out of range", "2024-13-09 14:05:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Populate(NewRow([]string{"stamp"}, []any{tt.stored}), &Sample{})
			if !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("Populate(%q) error = %v, want ErrMalformedTimestamp", tt.stored, err)
			}
		})
	}
}

func TestCodec_TimestampStoredAsUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2024, 6, 1, 10, 30, 0, 0, zone)

	values, err := Extract(&Person{Name: "a", Joined: &local})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if values["joined"] != "2024-06-01 08:30:00" {
		t.Errorf("joined = %#v, want %q", values["joined"], "2024-06-01 08:30:00")
	}

	out := &Person{}
	if err := Populate(rowFrom(values, int64(1)), out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if out.Joined == nil || !out.Joined.Equal(local) {
		t.Errorf("Joined = %v, want instant %v", out.Joined, local)
	}
	if out.Joined.Location() != time.UTC {
		t.Errorf("Joined location = %v, want UTC", out.Joined.Location())
	}
}

func TestCodec_TimestampTruncatesFraction(t *testing.T) {
	stamp := time.Date(2024, 6, 1, 10, 30, 0, 999_000_000, time.UTC)
	values, err := Extract(&Person{Joined: &stamp})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if values["joined"] != "2024-06-01 10:30:00" {
		t.Errorf("joined = %#v, want %q", values["joined"], "2024-06-01 10:30:00")
	}
}

func TestCodec_DriverTime(t *testing.T) {
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	out := &Person{}
	if err := Populate(NewRow([]string{"joined"}, []any{stamp}), out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if out.Joined == nil || !out.Joined.Equal(stamp) {
		t.Errorf("Joined = %v, want %v", out.Joined, stamp)
	}
}

func TestCodec_DriverTimeRejected(t *testing.T) {
	tests := []struct {
		name  string
		value time.Time
	}{
		{"zero time from unparsable text", time.Time{}},
		{"fractional seconds", time.Date(2020, 1, 2, 3, 4, 5, 500_000_000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Populate(NewRow([]string{"joined"}, []any{tt.value}), &Person{})
			if !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("Populate() error = %v, want ErrMalformedTimestamp", err)
			}
		})
	}
}

func TestCodec_RealIntoInteger(t *testing.T) {
	out := &Sample{}
	if err := Populate(NewRow([]string{"medium"}, []any{3.0}), out); err != nil {
		t.Fatalf("Populate(3.0) error = %v", err)
	}
	if out.Medium == nil || *out.Medium != 3 {
		t.Errorf("Medium = %v, want 3", out.Medium)
	}

	for _, v := range []float64{3.7, -0.5, 1e19} {
		err := Populate(NewRow([]string{"large"}, []any{v}), &Sample{})
		if !errors.Is(err, ErrValueOutOfRange) {
			t.Errorf("Populate(%v) error = %v, want ErrValueOutOfRange", v, err)
		}
	}
}

func TestCodec_IntegerOutOfRange(t *testing.T) {
	err := Populate(NewRow([]string{"small"}, []any{int64(40000)}), &Sample{})
	if !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("Populate() error = %v, want ErrValueOutOfRange", err)
	}
}

func TestCodec_NumberFromText(t *testing.T) {
	out := &Sample{}
	row := NewRow([]string{"medium", "double"}, []any{[]byte("42"), "2.5"})
	if err := Populate(row, out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if out.Medium == nil || *out.Medium != 42 {
		t.Errorf("Medium = %v, want 42", out.Medium)
	}
	if out.Double == nil || *out.Double != 2.5 {
		t.Errorf("Double = %v, want 2.5", out.Double)
	}
}

func TestCodec_UnparsableNumber(t *testing.T) {
	if err := Populate(NewRow([]string{"large"}, []any{"many"}), &Sample{}); err == nil {
		t.Error("Populate() expected error for non-numeric text, got nil")
	}
}

func TestCodec_MissingColumnUntouched(t *testing.T) {
	out := &Person{Name: "kept", Age: ptr(int32(5))}
	if err := Populate(NewRow([]string{"unrelated"}, []any{"x"}), out); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	if out.Name != "kept" || out.Age == nil || *out.Age != 5 {
		t.Errorf("Populate() modified fields without columns: %+v", out)
	}
	if out.ID != nil {
		t.Errorf("ID = %v, want nil without an identity column", *out.ID)
	}
}
