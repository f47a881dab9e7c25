package installer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user a question and returns the raw answer line. The
// manager and the integration configurer depend only on this interface so
// headless test doubles can drive every confirmation branch.
type Prompter interface {
	Ask(question string) (string, error)
}

// StdinPrompter reads answers line by line from an input stream, stdin in
// production.
type StdinPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewStdinPrompter returns a prompter bound to stdin/stdout.
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Ask prints the question and returns the next input line, trimmed.
func (p *StdinPrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question. An empty or unrecognized answer resolves to
// def, so destructive prompts pass def=false and lenient ones def=true.
func confirm(p Prompter, question string, def bool) bool {
	answer, err := p.Ask(question)
	if err != nil {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
