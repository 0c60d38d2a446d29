package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/envyaml/tree"
)

const defaultEditor = "vi"

// editDocCommand implements [tea.ExecCommand] for the document
// edit-convert-retry loop. It writes the current source to a temp file, opens
// the user's editor, and converts the result. On a conversion error the user
// is prompted to re-edit; declining exits the program.
type editDocCommand struct {
	session *session
	ctxFunc func() context.Context
	source  []byte
	doc     *tree.Value
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDocCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDocCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDocCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-convert-retry loop. If the user declines to re-edit,
// it returns [ErrEditDeclined]. An emptied file cancels the edit.
func (c *editDocCommand) Run() error {
	ctx := c.ctxFunc()
	content := c.session.source

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "envyaml-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if len(strings.TrimSpace(string(data))) == 0 {
			return nil
		}

		doc, convErr := c.session.proc.Process(ctx, nil, data)
		c.session.logger.TraceContext(
			ctx,
			"editor convert attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", convErr == nil),
		)

		if convErr == nil {
			c.source, c.doc = data, doc

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nConversion error: %s\n", convErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Keep the failed content for the next editor iteration.
		content = data
	}
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	// The editor variable may carry arguments, e.g. "code --wait".
	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
