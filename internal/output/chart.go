package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/torosent/loadbench/internal/matrix"
)

// ChartMetric is the y-axis quantity of a results chart.
type ChartMetric string

const (
	MetricDuration        ChartMetric = "duration"
	MetricAverageDuration ChartMetric = "average-duration"
	MetricFailures        ChartMetric = "failures"
)

// ParseChartMetric accepts duration, average-duration or failures.
func ParseChartMetric(s string) (ChartMetric, error) {
	switch ChartMetric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricAverageDuration:
		return MetricAverageDuration, nil
	case MetricDuration:
		return MetricDuration, nil
	case MetricFailures:
		return MetricFailures, nil
	default:
		return "", fmt.Errorf("unknown metric %q (use duration, average-duration or failures)", s)
	}
}

// Label is the axis title for m.
func (m ChartMetric) Label() string {
	switch m {
	case MetricDuration:
		return "Duration (s)"
	case MetricFailures:
		return "Failures"
	default:
		return "Average Duration (s)"
	}
}

// Value extracts m from a row.
func (m ChartMetric) Value(r matrix.Row) float64 {
	switch m {
	case MetricDuration:
		return r.Duration.Seconds()
	case MetricFailures:
		return float64(r.Failures)
	default:
		return r.AverageDuration().Seconds()
	}
}

// ChartPoint is one (concurrency, value) sample.
type ChartPoint struct {
	Concurrency int     `json:"x"`
	Value       float64 `json:"y"`
}

// ChartSeries is the line for one payload size.
type ChartSeries struct {
	PayloadSize int          `json:"payload_size"`
	Points      []ChartPoint `json:"points"`
}

// Chart is a results chart for one endpoint and request type.
type Chart struct {
	Endpoint    string
	RequestType string
	Metric      ChartMetric
	Series      []ChartSeries
	Rows        []matrix.Row
}

// Choices lists the distinct endpoints and request types present in rows,
// in first-seen order.
func Choices(rows []matrix.Row) (endpoints, requestTypes []string) {
	seenEndpoint := map[string]bool{}
	seenType := map[string]bool{}
	for _, r := range rows {
		if !seenEndpoint[r.Endpoint] {
			seenEndpoint[r.Endpoint] = true
			endpoints = append(endpoints, r.Endpoint)
		}
		if !seenType[r.RequestType] {
			seenType[r.RequestType] = true
			requestTypes = append(requestTypes, r.RequestType)
		}
	}
	return endpoints, requestTypes
}

// BuildChart filters rows to one endpoint and request type and groups them
// into one series per payload size, each sorted by concurrency. An empty
// endpoint or request type selects the first one present.
func BuildChart(rows []matrix.Row, endpoint, requestType string, metric ChartMetric) (Chart, error) {
	endpoints, types := Choices(rows)
	if len(endpoints) == 0 {
		return Chart{}, fmt.Errorf("no result rows")
	}
	if endpoint == "" {
		endpoint = endpoints[0]
	}
	if requestType == "" {
		requestType = types[0]
	}
	if metric == "" {
		metric = MetricAverageDuration
	}

	chart := Chart{Endpoint: endpoint, RequestType: requestType, Metric: metric}
	bySize := map[int][]ChartPoint{}
	for _, r := range rows {
		if r.Endpoint != endpoint || !strings.EqualFold(r.RequestType, requestType) {
			continue
		}
		chart.Rows = append(chart.Rows, r)
		bySize[r.PayloadSize] = append(bySize[r.PayloadSize], ChartPoint{Concurrency: r.Concurrency, Value: metric.Value(r)})
	}
	if len(chart.Rows) == 0 {
		return Chart{}, fmt.Errorf("no results for %s %s", requestType, endpoint)
	}

	sizes := make([]int, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		points := bySize[size]
		sort.SliceStable(points, func(i, j int) bool { return points[i].Concurrency < points[j].Concurrency })
		chart.Series = append(chart.Series, ChartSeries{PayloadSize: size, Points: points})
	}
	sort.SliceStable(chart.Rows, func(i, j int) bool {
		if chart.Rows[i].PayloadSize == chart.Rows[j].PayloadSize {
			return chart.Rows[i].Concurrency < chart.Rows[j].Concurrency
		}
		return chart.Rows[i].PayloadSize < chart.Rows[j].PayloadSize
	})
	return chart, nil
}

// Concurrencies returns the sorted distinct x values across all series.
func (c Chart) Concurrencies() []int {
	seen := map[int]bool{}
	var xs []int
	for _, s := range c.Series {
		for _, p := range s.Points {
			if !seen[p.Concurrency] {
				seen[p.Concurrency] = true
				xs = append(xs, p.Concurrency)
			}
		}
	}
	sort.Ints(xs)
	return xs
}

// PrintChartTable writes chart as one line per series point.
func PrintChartTable(w io.Writer, chart Chart) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("--- %s vs Concurrency: %s %s ---", chart.Metric.Label(), chart.RequestType, chart.Endpoint)))
	for _, s := range chart.Series {
		fmt.Fprintf(w, "%s\n", labelStyle.Render(fmt.Sprintf("%d bytes", s.PayloadSize)))
		for _, p := range s.Points {
			fmt.Fprintf(w, "  concurrency=%-6d %.4f\n", p.Concurrency, p.Value)
		}
	}
}
