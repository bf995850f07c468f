package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// FileSnapshot reads an already rendered canvas image from disk.
type FileSnapshot struct {
	Path string
}

// Snapshot returns the file contents; a missing path is an empty canvas.
func (f FileSnapshot) Snapshot(ctx context.Context) ([]byte, error) {
	if f.Path == "" {
		return nil, nil
	}
	if f.Path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(f.Path)
}

// TerminalPrompter reads a line from In, without echo when In is a terminal.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// Prompt writes message and reads one answer.
func (p TerminalPrompter) Prompt(ctx context.Context, message string) (string, error) {
	fmt.Fprint(p.Out, message+" ")

	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var alertStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("196")).
	Foreground(lipgloss.Color("203")).
	Padding(0, 1)

// TerminalNotifier prints alerts in a red box.
type TerminalNotifier struct {
	Out io.Writer
}

// Alert writes message to Out.
func (n TerminalNotifier) Alert(message string) {
	fmt.Fprintln(n.Out, alertStyle.Render(message))
}
