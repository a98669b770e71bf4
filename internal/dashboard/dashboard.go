package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/torosent/loadbench/internal/matrix"
	"github.com/torosent/loadbench/internal/output"
)

var seriesColors = []ui.Color{ui.ColorGreen, ui.ColorCyan, ui.ColorYellow, ui.ColorMagenta, ui.ColorBlue, ui.ColorRed, ui.ColorWhite}

var metricCycle = []output.ChartMetric{output.MetricAverageDuration, output.MetricDuration, output.MetricFailures}

// Dashboard renders a matrix results chart in the terminal.
type Dashboard struct {
	mu     sync.Mutex
	rows   []matrix.Row
	chart  output.Chart
	source string

	grid   *ui.Grid
	plot   *widgets.Plot
	legend *widgets.Paragraph
	info   *widgets.Paragraph
	table  *widgets.Table
}

// New builds the widgets for chart. rows is the full result set so the
// metric can be switched interactively. The terminal is not touched until Run.
func New(rows []matrix.Row, chart output.Chart, source string) *Dashboard {
	d := &Dashboard{rows: rows, chart: chart, source: source}
	d.initWidgets()
	d.refresh()
	return d
}

func (d *Dashboard) initWidgets() {
	d.plot = widgets.NewPlot()
	d.plot.PlotType = widgets.LineChart
	d.plot.Marker = widgets.MarkerBraille
	d.plot.AxesColor = ui.ColorWhite
	d.plot.BorderStyle.Fg = ui.ColorCyan

	d.legend = widgets.NewParagraph()
	d.legend.Title = "Payload Sizes"
	d.legend.BorderStyle.Fg = ui.ColorCyan

	d.info = widgets.NewParagraph()
	d.info.Title = "Results"
	d.info.BorderStyle.Fg = ui.ColorCyan

	d.table = widgets.NewTable()
	d.table.Title = "Detailed Data"
	d.table.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.table.RowSeparator = false
	d.table.BorderStyle.Fg = ui.ColorCyan
}

// refresh copies the current chart into the widgets.
func (d *Dashboard) refresh() {
	data, labels := PlotData(d.chart)
	d.plot.Title = fmt.Sprintf("%s vs Concurrency", d.chart.Metric.Label())
	d.plot.Data = data
	d.plot.DataLabels = labels
	d.plot.LineColors = make([]ui.Color, len(data))
	for i := range data {
		d.plot.LineColors[i] = seriesColors[i%len(seriesColors)]
	}

	d.legend.Text = legendText(d.chart)
	d.info.Text = fmt.Sprintf("%s %s\nSource: %s\nx axis: %s\n[m] metric  [q] quit",
		d.chart.RequestType, d.chart.Endpoint, d.source, strings.Join(labels, ", "))
	d.table.Rows = TableRows(d.chart)
}

func (d *Dashboard) setupGrid(width, height int) {
	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, width, height)
	d.grid.Set(
		ui.NewRow(0.6,
			ui.NewCol(0.75, d.plot),
			ui.NewCol(0.25,
				ui.NewRow(0.5, d.info),
				ui.NewRow(0.5, d.legend),
			),
		),
		ui.NewRow(0.4,
			ui.NewCol(1.0, d.table),
		),
	)
}

// NextMetric rebuilds the chart with the metric after the current one.
func (d *Dashboard) NextMetric() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := metricCycle[0]
	for i, m := range metricCycle {
		if m == d.chart.Metric {
			next = metricCycle[(i+1)%len(metricCycle)]
			break
		}
	}
	chart, err := output.BuildChart(d.rows, d.chart.Endpoint, d.chart.RequestType, next)
	if err != nil {
		return err
	}
	d.chart = chart
	d.refresh()
	return nil
}

// Chart returns the chart currently displayed.
func (d *Dashboard) Chart() output.Chart {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chart
}

// Run takes over the terminal until q, Ctrl-C or ctx is done.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}
	defer ui.Close()

	width, height := ui.TerminalDimensions()
	d.setupGrid(width, height)
	d.render()

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "m":
				if err := d.NextMetric(); err != nil {
					return err
				}
				d.render()
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		}
	}
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()
	ui.Render(d.grid)
}

// PlotData aligns every series on the chart's concurrency levels for a
// termui line plot. The plot is index based, so a missing point repeats the
// previous value and a single-point series is widened to two points.
func PlotData(chart output.Chart) ([][]float64, []string) {
	xs := chart.Concurrencies()
	labels := make([]string, len(xs))
	pos := make(map[int]int, len(xs))
	for i, x := range xs {
		labels[i] = strconv.Itoa(x)
		pos[x] = i
	}

	data := make([][]float64, 0, len(chart.Series))
	for _, s := range chart.Series {
		values := make([]float64, len(xs))
		have := make([]bool, len(xs))
		for _, p := range s.Points {
			values[pos[p.Concurrency]] = p.Value
			have[pos[p.Concurrency]] = true
		}
		last := 0.0
		for i := range values {
			if have[i] {
				last = values[i]
				continue
			}
			values[i] = last
		}
		if len(values) == 1 {
			values = append(values, values[0])
		}
		data = append(data, values)
	}
	return data, labels
}

func legendText(chart output.Chart) string {
	if len(chart.Series) == 0 {
		return "No data"
	}
	lines := make([]string, 0, len(chart.Series))
	for i, s := range chart.Series {
		color := colorName(seriesColors[i%len(seriesColors)])
		lines = append(lines, fmt.Sprintf("[%d bytes](fg:%s)", s.PayloadSize, color))
	}
	return strings.Join(lines, "\n")
}

func colorName(c ui.Color) string {
	switch c {
	case ui.ColorGreen:
		return "green"
	case ui.ColorCyan:
		return "cyan"
	case ui.ColorYellow:
		return "yellow"
	case ui.ColorMagenta:
		return "magenta"
	case ui.ColorBlue:
		return "blue"
	case ui.ColorRed:
		return "red"
	default:
		return "white"
	}
}

// TableRows formats the chart's rows for a termui table, header first.
func TableRows(chart output.Chart) [][]string {
	rows := [][]string{{"Payload Size", "Concurrency", "Duration (s)", "Avg (s)", "Creations", "Failures"}}
	for _, r := range chart.Rows {
		rows = append(rows, []string{
			strconv.Itoa(r.PayloadSize),
			strconv.Itoa(r.Concurrency),
			fmt.Sprintf("%.4f", r.Duration.Seconds()),
			fmt.Sprintf("%.4f", r.AverageDuration().Seconds()),
			strconv.FormatInt(r.Creations, 10),
			strconv.FormatInt(r.Failures, 10),
		})
	}
	return rows
}
