package config

import (
	"reflect"
	"testing"
	"time"
)

func TestAsString(t *testing.T) {
	tests := []struct {
		input interface{}
		want  string
	}{
		{"hello", "hello"},
		{123, "123"},
		{true, "true"},
		{nil, ""},
	}

	for _, tt := range tests {
		got, err := asString(tt.input)
		if err != nil {
			t.Errorf("asString(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asString(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		input interface{}
		want  int
	}{
		{123, 123},
		{"456", 456},
		{int64(789), 789},
		{float64(10.0), 10},
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := asInt(tt.input)
		if err != nil {
			t.Errorf("asInt(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asInt(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestAsIntSlice(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []int
		wantErr bool
	}{
		{name: "nil", input: nil, want: nil},
		{name: "ints", input: []int{1, 2}, want: []int{1, 2}},
		{name: "json numbers", input: []interface{}{float64(100), float64(1000)}, want: []int{100, 1000}},
		{name: "yaml numbers", input: []interface{}{1, 5, 10}, want: []int{1, 5, 10}},
		{name: "numeric strings", input: []interface{}{"3", "4"}, want: []int{3, 4}},
		{name: "comma list", input: "1, 2,3", want: []int{1, 2, 3}},
		{name: "scalar", input: 7, want: []int{7}},
		{name: "bad element", input: []interface{}{"x"}, wantErr: true},
		{name: "bad type", input: map[string]interface{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asIntSlice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("asIntSlice(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("asIntSlice(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAsStringSlice(t *testing.T) {
	got, err := asStringSlice([]interface{}{"GET", "POST"})
	if err != nil {
		t.Fatalf("asStringSlice() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"GET", "POST"}) {
		t.Errorf("asStringSlice() = %v", got)
	}

	single, err := asStringSlice("GET")
	if err != nil {
		t.Fatalf("asStringSlice() error = %v", err)
	}
	if !reflect.DeepEqual(single, []string{"GET"}) {
		t.Errorf("asStringSlice(single) = %v", single)
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		input interface{}
		want  bool
	}{
		{true, true},
		{"true", true},
		{"1", true},
		{false, false},
		{"false", false},
		{"0", false},
		{nil, false},
	}

	for _, tt := range tests {
		got, err := asBool(tt.input)
		if err != nil {
			t.Errorf("asBool(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asBool(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAsDuration(t *testing.T) {
	tests := []struct {
		input interface{}
		want  time.Duration
	}{
		{time.Second, time.Second},
		{"1m", time.Minute},
		{10, 10 * time.Second}, // int treated as seconds
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := asDuration(tt.input)
		if err != nil {
			t.Errorf("asDuration(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asDuration(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAsStringMap(t *testing.T) {
	got, err := asStringMap(map[string]interface{}{"X-Trace": "on", "X-Retry": 3})
	if err != nil {
		t.Fatalf("asStringMap() error = %v", err)
	}
	if !reflect.DeepEqual(got, map[string]string{"X-Trace": "on", "X-Retry": "3"}) {
		t.Errorf("asStringMap() = %v", got)
	}
	if _, err := asStringMap(map[string]interface{}{" ": "x"}); err == nil {
		t.Error("expected error for empty header key")
	}
	if _, err := asStringMap([]interface{}{"a"}); err == nil {
		t.Error("expected error for a list")
	}
}

func TestToStringKeyMap(t *testing.T) {
	got, err := toStringKeyMap(map[string]interface{}{" Service_Name ": "lb"})
	if err != nil {
		t.Fatalf("toStringKeyMap() error = %v", err)
	}
	if got["service_name"] != "lb" {
		t.Errorf("toStringKeyMap() = %v", got)
	}
	if _, err := toStringKeyMap("endpoint"); err == nil {
		t.Error("expected error for a scalar")
	}
}
