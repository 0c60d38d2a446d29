package repl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/envyaml/tree"
)

// editDocMsg is sent when document editing completes successfully.
type editDocMsg struct {
	source []byte
	doc    *tree.Value
}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a
// conversion error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-conversion
// error.
type editErrorMsg struct{ err error }

const helpMessage = `
: Commands (press Esc to toggle mode):

  help             Print this cruft
  list [PATH]      List keys below PATH in the document
  get PATH         Print the converted value at PATH
  set NAME=VALUE   Set a session variable and reconvert
  unset NAME       Remove a session variable and reconvert
  env              Print session variables
  edit             Edit the document in external $EDITOR
  reload           Reconvert the document
  clear            Clear screen
  quit             Exit REPL

Usage:
  Type a scalar to resolve it, e.g. ${PORT:8080}
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`

func (m model) executeCommand(input string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	echoCmd := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.session.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	printErr := func(err error) tea.Cmd {
		return tea.Sequence(echoCmd, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage))

	case "l", "list":
		out, err := m.list(arg)
		if err != nil {
			return m, printErr(err)
		}

		return m, tea.Sequence(echoCmd, tea.Println(out))

	case "g", "get":
		if m.session.doc == nil {
			return m, printErr(ErrNoDocument)
		}

		v, ok := m.session.lookup(arg)
		if !ok {
			return m, printErr(fmt.Errorf("%w: %q", ErrUsage, arg))
		}

		return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(show(v))))

	case "set":
		key, err := m.session.set(m.ctxFunc(), arg)
		if err != nil {
			return m, printErr(err)
		}

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("set "+key)))

	case "unset":
		if err := m.session.unset(m.ctxFunc(), arg); err != nil {
			return m, printErr(err)
		}

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("unset "+arg)))

	case "env":
		vars := m.session.variables()
		if vars == "" {
			vars = hintStyle.Render("no session variables")
		}

		return m, tea.Sequence(echoCmd, tea.Println(vars))

	case "r", "reload":
		if err := m.session.reload(m.ctxFunc()); err != nil {
			return m, printErr(err)
		}

		return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render("✔ document reloaded")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.editCmd())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + name + " (try 'help')"),
		)
	}
}

// list renders the keys or indices below path with a preview of each value.
func (m model) list(path string) (string, error) {
	if m.session.doc == nil {
		return "", ErrNoDocument
	}

	if _, ok := m.session.lookup(path); !ok {
		return "", fmt.Errorf("%w: %q", ErrUsage, path)
	}

	var b strings.Builder

	limit := max(m.width-4, 16)

	for _, key := range m.session.children(path) {
		v, _ := m.session.lookup(joinPath(path, key))
		fmt.Fprintf(&b, "  %s %s\n", key, hintStyle.Render(preview(v, limit-len(key))))
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func joinPath(parent, key string) string {
	parent = strings.Trim(parent, ". ")
	if parent == "" {
		return key
	}

	return parent + "." + key
}

func (m model) editCmd() tea.Cmd {
	cmd := &editDocCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.source == nil {
			return editCancelledMsg{}
		}

		return editDocMsg{source: cmd.source, doc: cmd.doc}
	})
}
