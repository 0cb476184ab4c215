package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"tubefetch/infrastructure/shell"
)

// Verifier checks that an ffmpeg executable runs
type Verifier struct {
	ffmpegPath string
	runner     shell.CommandRunner
}

// VerifierOption is a functional option for configuring Verifier
type VerifierOption func(*Verifier)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) VerifierOption {
	return func(v *Verifier) {
		v.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner shell.CommandRunner) VerifierOption {
	return func(v *Verifier) {
		v.runner = runner
	}
}

// NewVerifier creates a new ffmpeg verifier
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		ffmpegPath: "ffmpeg",
		runner:     &shell.ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Version returns the first line of `ffmpeg -version`
func (v *Verifier) Version(ctx context.Context) (string, error) {
	out, err := v.runner.Output(ctx, v.ffmpegPath, "-version")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// VerifyInstalled checks that ffmpeg is available
func (v *Verifier) VerifyInstalled(ctx context.Context) error {
	_, err := v.Version(ctx)
	return err
}
