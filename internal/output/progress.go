package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/torosent/loadbench/internal/matrix"
)

// MatrixProgress renders a progress bar line after each matrix entry.
type MatrixProgress struct {
	mu     sync.Mutex
	bar    progress.Model
	writer io.Writer
}

// NewMatrixProgress creates a progress renderer writing to w. A nil writer
// discards output.
func NewMatrixProgress(w io.Writer, width int) *MatrixProgress {
	if w == nil {
		w = io.Discard
	}
	if width <= 0 {
		width = 40
	}
	return &MatrixProgress{
		bar: progress.New(
			progress.WithGradient("#7D56F4", "#04B575"),
			progress.WithWidth(width),
		),
		writer: w,
	}
}

// Update draws the bar for done of total entries. It matches
// matrix.ProgressFunc.
func (p *MatrixProgress) Update(done, total int, row matrix.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	fmt.Fprintf(p.writer, "\r%s %d/%d %s %s c=%d", p.bar.ViewAs(pct), done, total, row.RequestType, row.Endpoint, row.Concurrency)
	if done >= total {
		fmt.Fprintln(p.writer)
	}
}
