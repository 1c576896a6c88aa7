package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// newTerminalChooser prompts on the given reader/writer for each conflicting
// file. Answers: k(eep) leaves the local file alone, t(ake) overwrites it
// with the template's version, a(bort) stops the run.
func newTerminalChooser(in io.Reader, out io.Writer) types.ConflictChooser {
	reader := bufio.NewReader(in)
	return func(entry types.PlanEntry) (types.ConflictChoice, error) {
		fmt.Fprintf(out, "%s was modified locally and changed upstream.\n", entry.Path)
		for {
			fmt.Fprint(out, "  [k]eep local, [t]ake upstream, [a]bort? ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", errors.Wrap(err, errors.ErrInvalidInput,
					"failed to read conflict answer")
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "k", "keep":
				return types.ChoiceKeepLocal, nil
			case "t", "take":
				return types.ChoiceTakeUpstream, nil
			case "a", "abort":
				return "", errors.Newf(errors.ErrConflictPolicy,
					"aborted at %s", entry.Path)
			}
		}
	}
}
