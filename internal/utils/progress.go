package utils

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress is a terminal progress bar for multi-step work such as
// extracting entries or scanning a directory of archives.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool

	// mpb renders decorators on its own goroutine, so the description
	// swapped in by Update is read under a lock.
	mu          sync.Mutex
	description string
}

var descLength = 24

// NewProgress creates a progress bar over total steps. The bar only
// renders when enabled and stderr is a terminal; otherwise every method
// is a no-op, which keeps piped and scripted runs clean.
func NewProgress(total int, enabled bool) *Progress {
	p := &Progress{enabled: enabled && isTerminal()}
	if !p.enabled {
		return p
	}

	// Blank line separates the bar from preceding log output.
	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				return p.label()
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return p
}

// Update moves the bar to current and swaps the leading description,
// typically the name of the archive or entry being worked on.
func (p *Progress) Update(current int, description string) {
	p.mu.Lock()
	p.description = description
	p.mu.Unlock()

	if !p.enabled || p.bar == nil {
		return
	}
	p.bar.SetCurrent(int64(current))
}

// label returns the current description, truncated so long entry names
// do not push the bar around.
func (p *Progress) label() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.description) > descLength {
		return p.description[:descLength-2] + ".."
	}
	return p.description
}

// Finish waits for the bar to render its final state.
func (p *Progress) Finish() {
	if !p.enabled || p.container == nil {
		return
	}
	p.container.Wait()

	// Blank line after the bar before any summary output.
	fmt.Fprintln(os.Stderr)
}

// isTerminal reports whether stderr is attached to a TTY.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
