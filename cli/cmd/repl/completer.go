package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "get", "set", "unset", "env", "edit", "reload", "clear", "quit",
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the path separator, and placeholder punctuation.
// Hyphens and underscores are intentionally excluded because keys and
// variable names may contain them.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '.',
		'$', '{', '}', ':',
		'[', ']', ',', '=':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// parentPath returns the dotted path leading up to the current word. For
// input "get server.http.ho" with the word "ho", the parent path is
// "server.http". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	pos := strings.LastIndexAny(prefix, " \t")

	return strings.Trim(prefix[pos+1:], ".")
}

// completions returns the current word, its boundaries, and the candidates
// that may replace it.
//
// In control mode, the first word completes to a command name, the argument
// of get completes to a document path, and the argument of set and unset
// completes to a variable name. In eval mode, a word directly following "${"
// completes to a variable name.
func completions(
	s *session,
	mode inputMode,
	input string,
	cursor int,
) (word string, start, end int, candidates []string) {
	word, start, end = wordBounds(input, cursor)
	prefix := input[:start]

	if mode == modeEval {
		if strings.HasSuffix(prefix, "${") {
			candidates = s.envNames()
		}

		return word, start, end, candidates
	}

	name, arg, hasArg := strings.Cut(strings.TrimLeft(prefix, " \t"), " ")
	if !hasArg {
		return word, start, end, ctrlCommands
	}

	switch name {
	case "get", "list":
		candidates = s.children(parentPath(input, start))

	case "set":
		if !strings.ContainsAny(arg, "= \t") {
			candidates = s.envNames()
		}

	case "unset":
		if strings.TrimSpace(arg) == "" {
			candidates = slices.Sorted(maps.Keys(s.vars))
		}
	}

	return word, start, end, candidates
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word matches nothing in command position, and matches
// every candidate elsewhere so the user can browse them.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, ws, we, candidates := completions(m.session, m.mode, input, m.input.Position())
	wordStart, wordEnd = ws, we

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if strings.TrimSpace(input[:wordStart]) == "" {
			return nil, nil, wordStart, wordEnd
		}

		// Return all candidates as unfiltered matches.
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle, highlightStyle := suggestionStyle, matchStyle
	if selected {
		baseStyle, highlightStyle = selectedStyle, selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}
