package output

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"
)

// chartPalette colours one series per payload size.
var chartPalette = []string{"#667eea", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#06b6d4", "#ec4899", "#84cc16"}

// HTMLChartData contains all data needed for the HTML chart template.
type HTMLChartData struct {
	GeneratedAt string
	Source      string
	Chart       Chart
	// PlotJSON is the uPlot data array: x values then one y array per series.
	PlotJSON   string
	SeriesJSON string
}

// GenerateHTMLChart writes a standalone HTML page plotting chart against
// concurrency, one line per payload size, followed by the filtered rows.
func GenerateHTMLChart(w io.Writer, chart Chart, source string) error {
	plot, series := uplotData(chart)

	plotJSON, err := json.Marshal(plot)
	if err != nil {
		return fmt.Errorf("failed to marshal chart data: %w", err)
	}
	seriesJSON, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	data := HTMLChartData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Source:      source,
		Chart:       chart,
		PlotJSON:    string(plotJSON),
		SeriesJSON:  string(seriesJSON),
	}

	tmpl, err := template.New("chart").Funcs(template.FuncMap{
		"formatSeconds": func(d time.Duration) string {
			return fmt.Sprintf("%.4f", d.Seconds())
		},
	}).Parse(htmlChartTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

type uplotSeries struct {
	Label  string `json:"label"`
	Stroke string `json:"stroke"`
}

// uplotData aligns every series on the shared concurrency axis. Missing
// points are null so uPlot leaves a gap.
func uplotData(chart Chart) ([][]*float64, []uplotSeries) {
	xs := chart.Concurrencies()
	pos := make(map[int]int, len(xs))
	xRow := make([]*float64, len(xs))
	for i, x := range xs {
		v := float64(x)
		xRow[i] = &v
		pos[x] = i
	}

	plot := [][]*float64{xRow}
	series := make([]uplotSeries, 0, len(chart.Series))
	for i, s := range chart.Series {
		ys := make([]*float64, len(xs))
		for _, p := range s.Points {
			v := p.Value
			ys[pos[p.Concurrency]] = &v
		}
		plot = append(plot, ys)
		series = append(series, uplotSeries{
			Label:  fmt.Sprintf("%d bytes", s.PayloadSize),
			Stroke: chartPalette[i%len(chartPalette)],
		})
	}
	return plot, series
}

const htmlChartTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Load Test Results Visualization</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 { font-size: 2rem; margin-bottom: 10px; }
        header .meta { opacity: 0.9; font-size: 0.9rem; }
        .content { padding: 40px; }
        .section { margin-bottom: 40px; }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        .chart-container {
            background: white;
            border-radius: 8px;
            padding: 20px;
            border: 1px solid #e5e7eb;
        }
        .chart { width: 100%; height: 340px; }
        table { width: 100%; border-collapse: collapse; background: white; }
        th, td { text-align: left; padding: 12px; border-bottom: 1px solid #e5e7eb; }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover { background: #f8f9fa; }
    </style>
    <script src="https://cdn.jsdelivr.net/npm/uplot@1.6.24/dist/uPlot.iife.min.js"></script>
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/uplot@1.6.24/dist/uPlot.min.css">
</head>
<body>
    <div class="container">
        <header>
            <h1>Load Test Results Visualization</h1>
            <div class="meta">
                {{.Chart.RequestType}} {{.Chart.Endpoint}}{{if .Source}} &middot; {{.Source}}{{end}} &middot; Generated {{.GeneratedAt}}
            </div>
        </header>
        <div class="content">
            <div class="section">
                <h2>Results</h2>
                <div class="chart-container">
                    <div id="results-chart" class="chart"></div>
                </div>
            </div>

            <div class="section">
                <h2>Detailed Data Table</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Endpoint</th>
                            <th>Request Type</th>
                            <th>Payload Size</th>
                            <th>Concurrency</th>
                            <th>Duration (s)</th>
                            <th>Average Duration (s)</th>
                            <th>Creations</th>
                            <th>Failures</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Chart.Rows}}
                        <tr>
                            <td>{{.Endpoint}}</td>
                            <td>{{.RequestType}}</td>
                            <td>{{.PayloadSize}}</td>
                            <td>{{.Concurrency}}</td>
                            <td>{{formatSeconds .Duration}}</td>
                            <td>{{formatSeconds .AverageDuration}}</td>
                            <td>{{.Creations}}</td>
                            <td>{{.Failures}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
    </div>

    <script>
        const plotData = JSON.parse({{.PlotJSON}});
        const seriesInfo = JSON.parse({{.SeriesJSON}});
        const el = document.getElementById('results-chart');

        new uPlot({
            title: {{.Chart.Metric.Label}} + " vs Concurrency",
            width: el.offsetWidth,
            height: 320,
            scales: { x: { time: false } },
            series: [{ label: "Concurrency" }].concat(seriesInfo.map(s => ({
                label: s.label,
                stroke: s.stroke,
                width: 2,
                points: { show: true },
                spanGaps: true
            }))),
            axes: [
                { label: "Concurrency" },
                { label: {{.Chart.Metric.Label}} }
            ]
        }, plotData, el);
    </script>
</body>
</html>
`
