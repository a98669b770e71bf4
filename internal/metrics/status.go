package metrics

import "sort"

// StatusCount is the number of responses seen with one status code.
type StatusCount struct {
	Code  string
	Count int64
}

// FlattenStatusCodes converts a code->count map into a sorted slice.
// Rows are sorted by descending count, then by code for stability.
func FlattenStatusCodes(codes map[string]int64) []StatusCount {
	if len(codes) == 0 {
		return nil
	}
	rows := make([]StatusCount, 0, len(codes))
	for code, count := range codes {
		rows = append(rows, StatusCount{Code: code, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
