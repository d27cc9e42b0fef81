package hours

import (
	"context"
	"errors"
)

var ErrPrompterTestError = errors.New("prompter test error")

// PrompterStub answers from a script and records what it was asked.
type PrompterStub struct {
	ConfirmAnswer bool
	SelectAnswer  string
	Err           error

	ConfirmPrompts []string
	SelectChoices  [][]string
}

func NewPrompterStub(confirm bool, selectAnswer string) *PrompterStub {
	return &PrompterStub{ConfirmAnswer: confirm, SelectAnswer: selectAnswer}
}

func (p *PrompterStub) Confirm(_ context.Context, prompt string) (bool, error) {
	p.ConfirmPrompts = append(p.ConfirmPrompts, prompt)
	if p.Err != nil {
		return false, p.Err
	}
	return p.ConfirmAnswer, nil
}

func (p *PrompterStub) Select(_ context.Context, _ string, choices []string) (string, error) {
	p.SelectChoices = append(p.SelectChoices, choices)
	if p.Err != nil {
		return "", p.Err
	}
	return p.SelectAnswer, nil
}

func (p *PrompterStub) Calls() int {
	return len(p.ConfirmPrompts) + len(p.SelectChoices)
}
