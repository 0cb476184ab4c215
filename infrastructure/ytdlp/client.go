package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tubefetch/domain/media"
	"tubefetch/infrastructure/shell"
)

// Client implements media.Extractor by running the yt-dlp executable
type Client struct {
	binary string
	runner shell.CommandRunner
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithBinary sets a custom yt-dlp executable path
func WithBinary(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner shell.CommandRunner) ClientOption {
	return func(c *Client) {
		c.runner = runner
	}
}

// NewClient creates a new yt-dlp client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		binary: "yt-dlp",
		runner: &shell.ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the installed yt-dlp version
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Output(ctx, c.binary, "--version")
	if err != nil {
		return "", fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// VerifyInstalled checks that yt-dlp is available
func (c *Client) VerifyInstalled(ctx context.Context) error {
	_, err := c.Version(ctx)
	return err
}

// Inspect implements media.Extractor
func (c *Client) Inspect(ctx context.Context, url string, quiet bool) (*media.Metadata, error) {
	info, err := c.dumpJSON(ctx, inspectArgs(url, quiet))
	if err != nil {
		return nil, err
	}
	meta := info.toMetadata()
	return &meta, nil
}

// ListFormats implements media.Extractor. Collections are listed through
// their first member.
func (c *Client) ListFormats(ctx context.Context, url string) ([]media.Format, error) {
	info, err := c.dumpJSON(ctx, listFormatsArgs(url))
	if err != nil {
		return nil, err
	}

	formats := info.Formats
	if len(formats) == 0 {
		for _, entry := range info.Entries {
			if entry != nil && len(entry.Formats) > 0 {
				formats = entry.Formats
				break
			}
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no formats available for %s", url)
	}

	out := make([]media.Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f.toFormat())
	}
	return out, nil
}

// Fetch implements media.Extractor
func (c *Client) Fetch(ctx context.Context, req *media.FetchRequest, listener media.ProgressListener) (*media.FetchResult, error) {
	var (
		result     media.FetchResult
		lastError  string
		lastSource string
	)

	onLine := func(line string) {
		switch {
		case strings.HasPrefix(line, progressMarker):
			if p, ok := parseProgress(strings.TrimPrefix(line, progressMarker)); ok && listener != nil {
				listener.Progress(p)
			}
		case strings.HasPrefix(line, sourceMarker):
			lastSource = cleanPath(strings.TrimPrefix(line, sourceMarker))
		case strings.HasPrefix(line, outputMarker):
			output := cleanPath(strings.TrimPrefix(line, outputMarker))
			if output == "" {
				return
			}
			source := lastSource
			if source == "" {
				source = output
			}
			result.Items = append(result.Items, media.FetchedItem{SourcePath: source, OutputPath: output})
			lastSource = ""
			if listener != nil {
				listener.Finished(output)
			}
		case strings.HasPrefix(line, errorPrefix):
			lastError = strings.TrimSpace(strings.TrimPrefix(line, errorPrefix))
		}
	}

	if err := c.runner.Stream(ctx, onLine, c.binary, fetchArgs(req)...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newError(lastError, err)
	}

	return &result, nil
}

func (c *Client) dumpJSON(ctx context.Context, args []string) (*infoJSON, error) {
	out, err := c.runner.Output(ctx, c.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := ""
		if exitErr, ok := err.(*shell.ExitError); ok {
			msg = lastErrorLine(exitErr.Stderr)
		}
		return nil, newError(msg, err)
	}

	var info infoJSON
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return &info, nil
}

// Error is a yt-dlp failure. Error() returns yt-dlp's own message when it
// printed one.
type Error struct {
	Message string
	Err     error
}

func newError(message string, err error) *Error {
	return &Error{Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("yt-dlp failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func lastErrorLine(stderr string) string {
	msg := ""
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, errorPrefix) {
			msg = strings.TrimSpace(strings.TrimPrefix(line, errorPrefix))
		}
	}
	return msg
}

func cleanPath(s string) string {
	s = strings.TrimSpace(s)
	if s == "NA" {
		return ""
	}
	return s
}

var _ media.Extractor = (*Client)(nil)
