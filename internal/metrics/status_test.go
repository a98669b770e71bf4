package metrics

import (
	"reflect"
	"testing"
)

func TestFlattenStatusCodes(t *testing.T) {
	tests := []struct {
		name  string
		codes map[string]int64
		want  []StatusCount
	}{
		{
			name:  "nil codes",
			codes: nil,
			want:  nil,
		},
		{
			name:  "empty codes",
			codes: map[string]int64{},
			want:  nil,
		},
		{
			name:  "sorted by count desc",
			codes: map[string]int64{"200": 10, "500": 5, "201": 20},
			want: []StatusCount{
				{Code: "201", Count: 20},
				{Code: "200", Count: 10},
				{Code: "500", Count: 5},
			},
		},
		{
			name:  "ties sorted by code",
			codes: map[string]int64{"503": 3, "404": 3},
			want: []StatusCount{
				{Code: "404", Count: 3},
				{Code: "503", Count: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenStatusCodes(tt.codes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlattenStatusCodes() = %v, want %v", got, tt.want)
			}
		})
	}
}
