package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/torosent/loadbench/internal/matrix"
)

func chartRows() []matrix.Row {
	return []matrix.Row{
		{Endpoint: "e1", RequestType: "POST", PayloadSize: 1000, Concurrency: 10, Duration: 4 * time.Second, Failures: 2},
		{Endpoint: "e1", RequestType: "POST", PayloadSize: 100, Concurrency: 10, Duration: 2 * time.Second},
		{Endpoint: "e1", RequestType: "POST", PayloadSize: 100, Concurrency: 1, Duration: time.Second},
		{Endpoint: "e1", RequestType: "GET", PayloadSize: 100, Concurrency: 1, Duration: time.Second},
		{Endpoint: "e2", RequestType: "POST", PayloadSize: 100, Concurrency: 1, Duration: time.Second},
	}
}

func TestBuildChart(t *testing.T) {
	chart, err := BuildChart(chartRows(), "e1", "POST", MetricAverageDuration)
	if err != nil {
		t.Fatalf("BuildChart() error = %v", err)
	}
	if len(chart.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(chart.Rows))
	}
	want := []ChartSeries{
		{PayloadSize: 100, Points: []ChartPoint{{Concurrency: 1, Value: 1}, {Concurrency: 10, Value: 0.2}}},
		{PayloadSize: 1000, Points: []ChartPoint{{Concurrency: 10, Value: 0.4}}},
	}
	if !reflect.DeepEqual(chart.Series, want) {
		t.Errorf("Series = %+v, want %+v", chart.Series, want)
	}
	if !reflect.DeepEqual(chart.Concurrencies(), []int{1, 10}) {
		t.Errorf("Concurrencies() = %v", chart.Concurrencies())
	}
}

func TestBuildChartMetrics(t *testing.T) {
	rows := chartRows()[:1]
	tests := []struct {
		metric ChartMetric
		want   float64
	}{
		{MetricDuration, 4},
		{MetricAverageDuration, 0.4},
		{MetricFailures, 2},
	}
	for _, tt := range tests {
		chart, err := BuildChart(rows, "", "", tt.metric)
		if err != nil {
			t.Fatalf("BuildChart(%s) error = %v", tt.metric, err)
		}
		if got := chart.Series[0].Points[0].Value; got != tt.want {
			t.Errorf("%s value = %v, want %v", tt.metric, got, tt.want)
		}
	}
}

func TestBuildChartDefaultsAndErrors(t *testing.T) {
	chart, err := BuildChart(chartRows(), "", "", "")
	if err != nil {
		t.Fatalf("BuildChart() error = %v", err)
	}
	if chart.Endpoint != "e1" || chart.RequestType != "POST" || chart.Metric != MetricAverageDuration {
		t.Errorf("defaults = %s %s %s", chart.Endpoint, chart.RequestType, chart.Metric)
	}

	if _, err := BuildChart(nil, "", "", MetricDuration); err == nil {
		t.Error("expected error for no rows")
	}
	if _, err := BuildChart(chartRows(), "e2", "GET", MetricDuration); err == nil {
		t.Error("expected error for a combination with no rows")
	}
}

func TestParseChartMetric(t *testing.T) {
	for in, want := range map[string]ChartMetric{
		"":                 MetricAverageDuration,
		"duration":         MetricDuration,
		"Average-Duration": MetricAverageDuration,
		"failures":         MetricFailures,
	} {
		got, err := ParseChartMetric(in)
		if err != nil || got != want {
			t.Errorf("ParseChartMetric(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseChartMetric("latency"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestChoices(t *testing.T) {
	endpoints, types := Choices(chartRows())
	if !reflect.DeepEqual(endpoints, []string{"e1", "e2"}) || !reflect.DeepEqual(types, []string{"POST", "GET"}) {
		t.Errorf("Choices() = %v, %v", endpoints, types)
	}
}

func TestGenerateHTMLChart(t *testing.T) {
	chart, err := BuildChart(chartRows(), "e1", "POST", MetricDuration)
	if err != nil {
		t.Fatalf("BuildChart() error = %v", err)
	}
	var buf bytes.Buffer
	if err := GenerateHTMLChart(&buf, chart, "results_20240101_000000.csv"); err != nil {
		t.Fatalf("GenerateHTMLChart() error = %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<!DOCTYPE html>", "uPlot", "results-chart", "100 bytes", "1000 bytes", "results_20240101_000000.csv", "4.0000"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestUplotDataAlignsSeries(t *testing.T) {
	chart, _ := BuildChart(chartRows(), "e1", "POST", MetricDuration)
	plot, series := uplotData(chart)
	if len(plot) != 3 || len(series) != 2 {
		t.Fatalf("plot rows = %d, series = %d", len(plot), len(series))
	}
	// 1000-byte series has no point at concurrency 1.
	if plot[2][0] != nil {
		t.Errorf("expected gap, got %v", *plot[2][0])
	}
	if plot[2][1] == nil || *plot[2][1] != 4 {
		t.Errorf("expected 4 at concurrency 10")
	}
}

func TestMatrixProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewMatrixProgress(&buf, 20)
	p.Update(1, 2, matrix.Row{RequestType: "GET", Endpoint: "e1", Concurrency: 5})
	p.Update(2, 2, matrix.Row{RequestType: "POST", Endpoint: "e1", Concurrency: 5})
	out := buf.String()
	if !strings.Contains(out, "1/2 GET e1 c=5") || !strings.Contains(out, "2/2 POST e1 c=5") {
		t.Errorf("unexpected progress output: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("final update should end the line")
	}
}

func TestPrintChartTable(t *testing.T) {
	chart, _ := BuildChart(chartRows(), "e1", "POST", MetricFailures)
	var buf bytes.Buffer
	PrintChartTable(&buf, chart)
	out := buf.String()
	for _, want := range []string{"Failures vs Concurrency", "100 bytes", "1000 bytes", "concurrency=10", "2.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
