package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tubefetch/application/download"
	"tubefetch/domain/media"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string) (int, error)
}

// SurveyPrompter implements Prompter using the survey library.
// Ctrl+C at a prompt is reported as download.ErrInterrupted.
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", promptError(err)
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, promptError(err)
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string) (int, error) {
	result := 0
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: len(options),
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return 0, promptError(err)
	}
	return result, nil
}

func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return download.ErrInterrupted
	}
	return err
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

// promptSurface answers download decisions by prompting the user
type promptSurface struct {
	prompter Prompter
	out      OutputWriter
}

func (s *promptSurface) ConfirmCollection(ctx context.Context, c *media.Collection) (bool, error) {
	return s.prompter.Confirm(fmt.Sprintf("Download all %d videos from this playlist?", c.MemberCount), false)
}

func (s *promptSurface) ChooseFormat(ctx context.Context, formats []media.Format) (string, error) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Available formats:")
	for _, f := range formats {
		fmt.Fprintf(s.out, "  %s\n", f.Summary())
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 50))
	return s.prompter.Input("Enter format ID:", "")
}

func (s *promptSurface) ConfirmRetry(ctx context.Context, reason string) (bool, error) {
	return s.prompter.Confirm("Retry download?", false)
}

// autoSurface answers download decisions from command-line flags
type autoSurface struct {
	confirmCollection bool
	format            string
}

func (s *autoSurface) ConfirmCollection(ctx context.Context, c *media.Collection) (bool, error) {
	return s.confirmCollection, nil
}

func (s *autoSurface) ChooseFormat(ctx context.Context, formats []media.Format) (string, error) {
	return s.format, nil
}

func (s *autoSurface) ConfirmRetry(ctx context.Context, reason string) (bool, error) {
	return false, nil
}
