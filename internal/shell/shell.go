// Package shell runs the line-oriented assistant session.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/command"
)

// Dispatcher executes one input line.
type Dispatcher interface {
	Dispatch(line string) (command.Result, error)
}

// Shell reads commands line by line and writes their results.
type Shell struct {
	dispatcher Dispatcher
	prompt     string
	greeting   string
	log        *zap.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// New creates a Shell that sends each line to d.
func New(d Dispatcher, opts ...Option) *Shell {
	s := &Shell{
		dispatcher: d,
		prompt:     "> ",
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPrompt sets the text printed before each line is read.
func WithPrompt(p string) Option {
	return func(s *Shell) { s.prompt = p }
}

// WithGreeting sets the text printed once when the session starts.
func WithGreeting(g string) Option {
	return func(s *Shell) { s.greeting = g }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) { s.log = l }
}

// readResult carries one scanned line or the scan error.
type readResult struct {
	line string
	err  error
}

// Run loops until an exit command, end of input, or ctx cancellation.
// Command errors are reported to out and do not end the session.
// Returns nil on exit or EOF, ctx.Err() on cancellation.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if s.greeting != "" {
		_, _ = fmt.Fprintln(out, s.greeting)
	}

	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go scan(in, lines, done)

	for {
		_, _ = fmt.Fprint(out, s.prompt)

		var rr readResult
		var ok bool
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			return ctx.Err()
		case rr, ok = <-lines:
		}
		if !ok {
			_, _ = fmt.Fprintln(out)
			return nil
		}
		if rr.err != nil {
			return fmt.Errorf("shell: reading input: %w", rr.err)
		}

		if strings.TrimSpace(rr.line) == "" {
			continue
		}

		res, err := s.dispatcher.Dispatch(rr.line)
		if err != nil {
			s.log.Debug("command failed", zap.String("line", rr.line), zap.Error(err))
			_, _ = fmt.Fprintln(out, command.Describe(err))
			continue
		}
		name, args := command.Parse(rr.line)
		s.log.Debug("command done", zap.String("command", name), zap.Int("args", len(args)))

		if res.Output != "" {
			_, _ = fmt.Fprintln(out, res.Output)
		}
		if res.Exit {
			return nil
		}
	}
}

// scan sends each line of in to lines and closes it at end of input.
// It stops early once done is closed.
func scan(in io.Reader, lines chan<- readResult, done <-chan struct{}) {
	defer close(lines)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case lines <- readResult{line: sc.Text()}:
		case <-done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		select {
		case lines <- readResult{err: err}:
		case <-done:
		}
	}
}
