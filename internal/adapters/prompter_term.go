package adapters

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// TerminalPrompter resolves write conflicts interactively on a
// terminal. Uppercase answers apply the choice to every remaining
// conflict in the run.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{In: in, Out: out}
}

func (p *TerminalPrompter) Ask(conflict ports.Conflict) (types.PromptChoice, bool, error) {
	// One scanner for the prompter's lifetime: a scanner reads ahead of
	// the line it returns, so input for the next conflict may already
	// sit in its buffer.
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	scanner := p.scanner
	for {
		fmt.Fprintf(p.Out, "conflict: %s was modified outside promptpack\n", conflict.Key.RelativePath)
		fmt.Fprint(p.Out, "  [o]verwrite  [k]eep  [d]iff  (uppercase O/K applies to all remaining): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", false, err
			}
			// EOF: no interaction possible, fall back to keep.
			return types.PromptChoiceKeep, true, nil
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "o":
			return types.PromptChoiceOverwrite, false, nil
		case "O":
			return types.PromptChoiceOverwrite, true, nil
		case "k":
			return types.PromptChoiceKeep, false, nil
		case "K":
			return types.PromptChoiceKeep, true, nil
		case "d", "D":
			p.showDiff(conflict)
		default:
			fmt.Fprintln(p.Out, "unrecognized answer")
		}
	}
}

func (p *TerminalPrompter) showDiff(conflict ports.Conflict) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(conflict.DiskContent)),
		B:        difflib.SplitLines(string(conflict.NewContent)),
		FromFile: conflict.Key.RelativePath + " (on disk)",
		ToFile:   conflict.Key.RelativePath + " (new)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		fmt.Fprintf(p.Out, "failed to render diff: %v\n", err)
		return
	}
	fmt.Fprint(p.Out, text)
}

var _ ports.PrompterPort = (*TerminalPrompter)(nil)
