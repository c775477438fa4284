package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook"
	"github.com/smileynet/addrbook/internal/addressbook"
	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/config"
	"github.com/smileynet/addrbook/internal/contact"
	"github.com/smileynet/addrbook/internal/logging"
	"github.com/smileynet/addrbook/internal/shell"
	"github.com/smileynet/addrbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// localDir holds project-level config and template overrides.
const localDir = ".addrbook"

// CLI is the top-level command structure for addrbook.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"withargs" help:"Start an interactive assistant session (default)."`
	Check   CheckCmd         `cmd:"" help:"Validate phone numbers."`
}

// ShellCmd runs an interactive session over an in-memory address book.
type ShellCmd struct {
	NoTUI    bool   `help:"Force the plain line shell even if stdout is a TTY." default:"false"`
	Prompt   string `help:"Override the input prompt."`
	LogLevel string `help:"Diagnostic log level (off, debug, info, warn, error)."`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/addrbook/config.yaml"),
		localDir+"/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Run executes the shell command.
func (s *ShellCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	s.applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer func() { _ = log.Sync() }()

	banner, err := addrbook.Banner(localDir)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	useTUI := s.useTUI(cfg.Display.Mode, tui.IsTerminal(os.Stdout))
	log.Debug("starting session", zap.Bool("tui", useTUI), zap.String("display", cfg.Display.Mode))

	reg := command.Default(addressbook.New())
	return s.run(ctx, os.Stdin, os.Stdout, reg, sessionText{
		prompt:   cfg.Shell.Prompt,
		greeting: joinNonEmpty(banner, cfg.Shell.Greeting),
	}, log, useTUI)
}

// applyFlags applies CLI flag overrides on top of file and env config.
func (s *ShellCmd) applyFlags(cfg *config.Config) {
	if s.Prompt != "" {
		cfg.Shell.Prompt = s.Prompt
	}
	if s.LogLevel != "" {
		cfg.Log.Level = s.LogLevel
	}
	if s.NoTUI {
		cfg.Display.Mode = config.DisplayPlain
	}
}

// useTUI decides between the full-screen and plain front ends.
func (s *ShellCmd) useTUI(mode string, isTTY bool) bool {
	switch mode {
	case config.DisplayTUI:
		return true
	case config.DisplayPlain:
		return false
	default:
		return isTTY
	}
}

// sessionText holds the prompt and greeting shown by either front end.
type sessionText struct {
	prompt   string
	greeting string
}

// run executes the session with the chosen front end, enabling testable wiring.
func (s *ShellCmd) run(ctx context.Context, in io.Reader, out io.Writer, reg *command.Registry, text sessionText, log *zap.Logger, useTUI bool) error {
	if useTUI {
		m := tui.NewModel(reg,
			tui.WithPrompt(text.prompt),
			tui.WithGreeting(text.greeting),
			tui.WithLogger(log),
		)
		if err := tui.Run(ctx, m, in, out); err != nil {
			return fmt.Errorf("shell: %w", err)
		}
		return nil
	}

	sh := shell.New(reg,
		shell.WithPrompt(text.prompt),
		shell.WithGreeting(text.greeting),
		shell.WithLogger(log),
	)
	if err := sh.Run(ctx, in, out); err != nil {
		// Interrupt is a normal way to leave the session.
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

func joinNonEmpty(parts ...string) string {
	var out string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += p
	}
	return out
}

// CheckCmd validates phone numbers without starting a session.
type CheckCmd struct {
	Phones []string `arg:"" help:"Phone numbers to validate."`
}

// Run executes the check command.
func (c *CheckCmd) Run() error {
	return c.run(os.Stdout)
}

// run validates each number and reports the result, enabling testable wiring.
func (c *CheckCmd) run(w io.Writer) error {
	invalid := 0
	for _, p := range c.Phones {
		if err := contact.ValidatePhone(p); err != nil {
			invalid++
			_, _ = fmt.Fprintf(w, "%s\tinvalid\n", p)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\tok\n", p)
	}
	if invalid > 0 {
		return fmt.Errorf("check: %d of %d numbers invalid: %w", invalid, len(c.Phones), contact.ErrInvalidPhoneFormat)
	}
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitInvalid = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, contact.ErrInvalidPhoneFormat) {
		return exitInvalid
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addrbook"),
		kong.Description("In-memory contact book assistant."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
