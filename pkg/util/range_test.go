package util

import (
	"reflect"
	"testing"
)

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"single", "5", []int{5}, false},
		{"range", "1-5", []int{1, 2, 3, 4, 5}, false},
		{"list", "1,3,5", []int{1, 3, 5}, false},
		{"mixed", "1-3,5,7-9", []int{1, 2, 3, 5, 7, 8, 9}, false},
		{"dedup and sort", "5,1-3,2", []int{1, 2, 3, 5}, false},
		{"spaces", " 16 , 24 ", []int{16, 24}, false},
		{"reversed", "5-1", nil, true},
		{"bad value", "abc", nil, true},
		{"bad start", "x-5", nil, true},
		{"bad end", "1-y", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRange(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpandRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandRange(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestExpandPositiveRange(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		limit   int
		want    []int
		wantErr bool
	}{
		{"host targets", "20,50,100", 0, []int{20, 50, 100}, false},
		{"radix span", "16-18", 0, []int{16, 17, 18}, false},
		{"zero rejected", "0,4", 0, nil, true},
		{"empty rejected", "", 0, nil, true},
		{"limit exceeded", "1-10", 5, nil, true},
		{"limit respected", "1-5", 5, []int{1, 2, 3, 4, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPositiveRange(tt.spec, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpandPositiveRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandPositiveRange(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestCompactRange(t *testing.T) {
	tests := []struct {
		values []int
		want   string
	}{
		{nil, ""},
		{[]int{1}, "1"},
		{[]int{1, 2, 3, 5, 7, 8, 9}, "1-3,5,7-9"},
		{[]int{9, 8, 7, 1}, "1,7-9"},
		{[]int{4, 4, 5}, "4-5"},
	}

	for _, tt := range tests {
		if got := CompactRange(tt.values); got != tt.want {
			t.Errorf("CompactRange(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestCompactRangeRoundTrip(t *testing.T) {
	values := []int{2, 3, 4, 10, 12, 13}
	got, err := ExpandRange(CompactRange(values))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("round trip = %v, want %v", got, values)
	}
}
