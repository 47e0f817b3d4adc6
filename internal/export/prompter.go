package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter chooses where an export is written. ok is false when the user
// cancelled.
type Prompter interface {
	SavePath(suggested string) (path string, ok bool, err error)
}

// StaticPrompter always answers with Path. An empty Path accepts the
// suggestion.
type StaticPrompter struct {
	Path string
}

func (p StaticPrompter) SavePath(suggested string) (string, bool, error) {
	if p.Path == "" {
		return suggested, true, nil
	}
	return p.Path, true, nil
}

// CancelPrompter always cancels.
type CancelPrompter struct{}

func (CancelPrompter) SavePath(string) (string, bool, error) { return "", false, nil }

// ReaderPrompter asks on Out and reads one line from In.
// A blank answer accepts the suggestion; "q" or end of input cancels.
type ReaderPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p ReaderPrompter) SavePath(suggested string) (string, bool, error) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Save as [%s] (q to cancel): ", suggested)
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", false, nil
	}

	answer := strings.TrimSpace(line)
	switch {
	case strings.EqualFold(answer, "q"):
		return "", false, nil
	case answer == "":
		return suggested, true, nil
	default:
		return answer, true, nil
	}
}
