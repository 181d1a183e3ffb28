// Package prompt asks the user to confirm destructive or expensive
// operations.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmgilman/storify/internal/logging"
)

// maxListed is the number of delete targets echoed before asking.
const maxListed = 5

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New returns a Prompter. Questions are only asked when in is a terminal;
// otherwise every confirmation is refused.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: logging.IsTerminal(in),
	}
}

// NewInteractive returns a Prompter that always asks, whatever in is.
func NewInteractive(in io.Reader, out io.Writer) *Prompter {
	p := New(in, out)
	p.interactive = true
	return p
}

// ConfirmDelete lists the first few paths and asks whether to delete them.
// Only "y" and "yes" confirm.
func (p *Prompter) ConfirmDelete(paths []string) bool {
	fmt.Fprintf(p.out, "About to delete %d item(s):\n", len(paths))
	for _, path := range paths[:min(len(paths), maxListed)] {
		fmt.Fprintf(p.out, "  %s\n", path)
	}
	if len(paths) > maxListed {
		fmt.Fprintf(p.out, "  ... and %d more\n", len(paths)-maxListed)
	}

	fmt.Fprint(p.out, "Continue? (y/N): ")
	if !p.interactive {
		fmt.Fprintln(p.out)
		return false
	}
	return p.yes()
}

// ConfirmLargeFile asks whether to print a file of size bytes. Outside a
// terminal it explains why nothing is printed and refuses.
func (p *Prompter) ConfirmLargeFile(size int64) bool {
	mb := size / (1024 * 1024)
	if !p.interactive {
		fmt.Fprintf(p.out, "File is large (%d MB). Skipping display in non-interactive mode.\n", mb)
		return false
	}

	fmt.Fprintf(p.out, "File is large (%d MB, %s). Do you want to display it? (y/N) ", mb, humanize.IBytes(uint64(size)))
	if p.yes() {
		return true
	}
	fmt.Fprintln(p.out, "Display cancelled.")
	return false
}

func (p *Prompter) yes() bool {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
