package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func outputFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use text, json or yaml", s)
	}
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// readInput reads from path, or from the command input when path is empty.
func (a *app) readInput(path string) ([]byte, error) {
	if path == "" {
		b, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return b, nil
}

// readEnvelope reads a text envelope and strips surrounding whitespace.
func (a *app) readEnvelope(path string) (string, error) {
	b, err := a.readInput(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// readPassword reads a secret without echo, falling back to /dev/tty when
// stdin is piped.
func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		return b, err
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		if runtime.GOOS == "windows" {
			return nil, fmt.Errorf("key must be set via --key or CAHC_KEY when stdin is piped")
		}
		return nil, fmt.Errorf("cannot read key: stdin is piped and /dev/tty is not available, set CAHC_KEY")
	}
	defer tty.Close()

	b, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(os.Stderr)
	return b, err
}
