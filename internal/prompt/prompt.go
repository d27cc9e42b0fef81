package prompt

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var ErrAborted = errors.New("prompt aborted")

type Prompter interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
	Select(ctx context.Context, prompt string, choices []string) (string, error)
}

// New returns interactive forms when in is a terminal and plain line prompts otherwise,
// so piped input keeps working.
func New(in *os.File, out io.Writer) Prompter {
	if in == nil {
		return NewLine(nil, out)
	}
	if IsTerminal(in) {
		return NewForms(in, out)
	}
	return NewLine(in, out)
}

func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Forms prompts with huh forms.
type Forms struct {
	in  io.Reader
	out io.Writer
}

func NewForms(in io.Reader, out io.Writer) *Forms {
	return &Forms{in: in, out: out}
}

func (f *Forms) Confirm(ctx context.Context, prompt string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := f.run(ctx, form); err != nil {
		return false, err
	}
	return confirmed, nil
}

func (f *Forms) Select(ctx context.Context, prompt string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}
	selected := choices[0]
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(prompt).
				Options(huh.NewOptions(choices...)...).
				Value(&selected),
		),
	)
	if err := f.run(ctx, form); err != nil {
		return "", err
	}
	return selected, nil
}

func (f *Forms) run(ctx context.Context, form *huh.Form) error {
	form = form.WithShowHelp(false).WithInput(f.in).WithOutput(f.out)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
