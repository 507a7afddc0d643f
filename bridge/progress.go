// Progress/status reporting: a single overwriting status line shown while
// copying files for the snapshot bootstrap and checking in commit batches,
// suppressed when
// stdout isn't a terminal (cron runs, log redirection). Grounded on
// tool/repotool.go's `progress = !quiet && term.IsTerminal(...)` gate and
// surgeon/pager.go's use of terminfo capability strings.

package main

import (
	"fmt"
	"os"

	terminfo "github.com/xo/terminfo"
	"golang.org/x/term"
)

type progressReporter struct {
	enabled bool
	ti      *terminfo.Terminfo
	lastLen int
}

// newProgressReporter builds a reporter that only writes when stdout is a
// terminal, matching the teacher's quiet-mode/TTY gate.
func newProgressReporter(quiet bool) *progressReporter {
	if quiet || !term.IsTerminal(int(os.Stdout.Fd())) {
		return &progressReporter{enabled: false}
	}
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		return &progressReporter{enabled: false}
	}
	return &progressReporter{enabled: true, ti: ti}
}

// Step overwrites the current status line with msg.
func (p *progressReporter) Step(format string, args ...interface{}) {
	if !p.enabled {
		return
	}
	msg := fmt.Sprintf(format, args...)
	p.ti.Fprintf(os.Stdout, terminfo.CarriageReturn)
	p.ti.Fprintf(os.Stdout, terminfo.ClrEol)
	fmt.Fprint(os.Stdout, msg)
	p.lastLen = len(msg)
}

// Done clears the status line, leaving the cursor at column 0.
func (p *progressReporter) Done() {
	if !p.enabled {
		return
	}
	p.ti.Fprintf(os.Stdout, terminfo.CarriageReturn)
	p.ti.Fprintf(os.Stdout, terminfo.ClrEol)
}
