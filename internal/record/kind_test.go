package record

import (
	"reflect"
	"testing"
	"time"
)

func TestKind_ColumnType(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBool, "INTEGER"},
		{KindInt16, "INTEGER"},
		{KindInt32, "INTEGER"},
		{KindInt64, "INTEGER"},
		{KindEnum, "INTEGER"},
		{KindFloat32, "REAL"},
		{KindFloat64, "REAL"},
		{KindString, "TEXT"},
		{KindTime, "DATE"},
		{KindInvalid, "TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.ColumnType(); got != tt.want {
				t.Errorf("ColumnType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if got := KindTime.String(); got != "time" {
		t.Errorf("KindTime.String() = %q, want %q", got, "time")
	}
	if got := Kind(200).String(); got != "invalid" {
		t.Errorf("Kind(200).String() = %q, want %q", got, "invalid")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name         string
		value        any
		wantKind     Kind
		wantNullable bool
		wantMulti    bool
	}{
		{"bool", false, KindBool, false, false},
		{"bool pointer", (*bool)(nil), KindBool, true, false},
		{"int8 widens to int16", int8(0), KindInt16, false, false},
		{"int16", int16(0), KindInt16, false, false},
		{"int32 pointer", (*int32)(nil), KindInt32, true, false},
		{"int", 0, KindInt64, false, false},
		{"int64", int64(0), KindInt64, false, false},
		{"float32", float32(0), KindFloat32, false, false},
		{"float64 pointer", (*float64)(nil), KindFloat64, true, false},
		{"string", "", KindString, false, false},
		{"time", time.Time{}, KindTime, false, false},
		{"time pointer", (*time.Time)(nil), KindTime, true, false},
		{"enum", StatusDraft, KindEnum, false, false},
		{"enum pointer", (*Status)(nil), KindEnum, true, false},
		{"string slice", []string(nil), KindInvalid, false, true},
		{"byte slice", []byte(nil), KindInvalid, false, true},
		{"array", [2]int{}, KindInvalid, false, true},
		{"map", map[string]int(nil), KindInvalid, false, true},
		{"unsigned", uint32(0), KindInvalid, false, false},
		{"struct", Person{}, KindInvalid, false, false},
		{"struct pointer", (*Person)(nil), KindInvalid, true, false},
		{"channel", (chan int)(nil), KindInvalid, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, nullable, multi := kindOf(reflect.TypeOf(tt.value))
			if kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
			if nullable != tt.wantNullable {
				t.Errorf("nullable = %v, want %v", nullable, tt.wantNullable)
			}
			if multi != tt.wantMulti {
				t.Errorf("multiValued = %v, want %v", multi, tt.wantMulti)
			}
		})
	}
}

func TestEnumCardinality(t *testing.T) {
	if got := enumCardinality(reflect.TypeOf(StatusActive)); got != 3 {
		t.Errorf("enumCardinality(Status) = %d, want 3", got)
	}
}
