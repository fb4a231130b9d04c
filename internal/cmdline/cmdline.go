// Package cmdline reads batch command lines of the form
//
//	UPLOAD_SAVE "/saves/my game.sav"
//	UPDATE_SAVE edited.json 'game.sav'
//
// splitting words the way a POSIX shell does: single quotes are literal,
// double quotes honour backslash escapes of " \ $ and `, and a backslash
// outside quotes escapes any character. Blank lines and lines starting
// with # carry no command.
package cmdline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

var (
	ErrUnclosedQuote  = errors.New("unclosed quote in command line")
	ErrTrailingEscape = errors.New("trailing escape character in command line")
)

// Command is one parsed line
type Command struct {
	Name string
	Args []string
	Line int
}

// String renders the command back into a line Parse accepts
func (c Command) String() string {
	return Join(append([]string{c.Name}, c.Args...))
}

// Parse splits one line into a command. ok is false for blank and comment
// lines.
func Parse(line string) (cmd Command, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Command{}, false, nil
	}

	words, err := Split(trimmed)
	if err != nil {
		return Command{}, false, err
	}
	if len(words) == 0 {
		return Command{}, false, nil
	}
	return Command{Name: words[0], Args: words[1:]}, true, nil
}

// Scanner yields the commands of a batch stream
type Scanner struct {
	sc   *bufio.Scanner
	line int
	cmd  Command
	err  error
}

// NewScanner reads commands from r
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Scan advances to the next command, skipping blank and comment lines
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.sc.Scan() {
		s.line++
		cmd, ok, err := Parse(s.sc.Text())
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line, err)
			return false
		}
		if ok {
			cmd.Line = s.line
			s.cmd = cmd
			return true
		}
	}
	s.err = s.sc.Err()
	return false
}

// Command returns the command found by the last Scan
func (s *Scanner) Command() Command {
	return s.cmd
}

// Err returns the first parse or read error
func (s *Scanner) Err() error {
	return s.err
}

// splitter accumulates words while walking a line
type splitter struct {
	words   []string
	current strings.Builder
	// quoted marks a word that must be emitted even when empty ('' or "")
	quoted bool
}

func (sp *splitter) flush() {
	if sp.current.Len() > 0 || sp.quoted {
		sp.words = append(sp.words, sp.current.String())
		sp.current.Reset()
		sp.quoted = false
	}
}

// Split breaks input into words following the quoting rules of the
// package documentation
func Split(input string) ([]string, error) {
	sp := &splitter{words: []string{}}
	runes := []rune(input)

	var quote rune // 0, '\'' or '"'
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case quote == '\'':
			if ch == '\'' {
				quote = 0
				continue
			}
			sp.current.WriteRune(ch)

		case ch == '\\':
			if i+1 >= len(runes) {
				return nil, ErrTrailingEscape
			}
			i++
			next := runes[i]
			if quote == '"' && !strings.ContainsRune("\"\\$`", next) {
				sp.current.WriteRune('\\')
			}
			sp.current.WriteRune(next)

		case quote == '"':
			if ch == '"' {
				quote = 0
				continue
			}
			sp.current.WriteRune(ch)

		case ch == '\'' || ch == '"':
			quote = ch
			sp.quoted = true

		case unicode.IsSpace(ch):
			sp.flush()

		default:
			sp.current.WriteRune(ch)
		}
	}

	if quote != 0 {
		kind := "single"
		if quote == '"' {
			kind = "double"
		}
		return nil, fmt.Errorf("%w: %s quote", ErrUnclosedQuote, kind)
	}
	sp.flush()
	return sp.words, nil
}

// Join quotes words so that Split returns them unchanged
func Join(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = quoteWord(w)
	}
	return strings.Join(parts, " ")
}

func quoteWord(w string) string {
	if w == "" {
		return "''"
	}
	if !strings.ContainsFunc(w, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("'\"\\$`#", r)
	}) {
		return w
	}
	if !strings.Contains(w, "'") {
		return "'" + w + "'"
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range w {
		if strings.ContainsRune("\"\\$`", r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	b.WriteRune('"')
	return b.String()
}
