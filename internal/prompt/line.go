package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNoChoices = errors.New("nothing to select from")

const maxSelectAttempts = 3

// Line prompts on plain text streams: y/N confirmations and numbered selections.
type Line struct {
	in  io.Reader
	out io.Writer
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: in, out: out}
}

// Confirm defaults to no on an empty answer or closed input.
func (l *Line) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(l.out, "%s [y/N]: ", prompt)

	text, err := readPromptLine(l.in)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	text = strings.TrimSpace(strings.ToLower(text))
	return text == "y" || text == "yes", nil
}

// Select accepts the number of a choice or its exact text.
func (l *Line) Select(ctx context.Context, prompt string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	fmt.Fprintln(l.out, prompt)
	for i, choice := range choices {
		fmt.Fprintf(l.out, "  %d) %s\n", i+1, choice)
	}

	for attempt := 0; attempt < maxSelectAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(l.out, "Enter a number [1-%d]: ", len(choices))

		text, err := readPromptLine(l.in)
		text = strings.TrimSpace(text)
		if text == "" && err != nil {
			return "", ErrAborted
		}
		if choice, ok := pick(choices, text); ok {
			return choice, nil
		}
		fmt.Fprintf(l.out, "%q is not one of the choices\n", text)
		if err != nil {
			return "", ErrAborted
		}
	}
	return "", fmt.Errorf("%w: no valid choice after %d attempts", ErrAborted, maxSelectAttempts)
}

func pick(choices []string, text string) (string, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}
		return "", false
	}
	for _, choice := range choices {
		if choice == text {
			return choice, true
		}
	}
	return "", false
}

// readPromptLine reads until either LF or CR so Enter works in normal and raw terminal modes.
func readPromptLine(in io.Reader) (string, error) {
	if in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := in.Read(one[:])
		if n > 0 {
			switch one[0] {
			case '\n', '\r':
				return string(buf), nil
			default:
				buf = append(buf, one[0])
			}
		}

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}
