package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/smileynet/addrbook/internal/addressbook"
)

func noop(*addressbook.Book, []string) (Result, error) { return Result{}, nil }

func TestRegistry(t *testing.T) {
	t.Run("register and lookup by name and alias", func(t *testing.T) {
		r := NewRegistry(addressbook.New())
		r.Register(Command{Name: "exit", Aliases: []string{"close"}, Run: noop})

		for _, name := range []string{"exit", "close", "EXIT"} {
			c, err := r.Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", name, err)
			}
			if c.Name != "exit" {
				t.Errorf("Lookup(%q).Name = %q, want %q", name, c.Name, "exit")
			}
		}
	})

	t.Run("unknown command returns UnknownCommandError", func(t *testing.T) {
		r := NewRegistry(addressbook.New())
		r.Register(Command{Name: "hello", Run: noop})

		_, err := r.Lookup("nonexistent")
		var uce *UnknownCommandError
		if !errors.As(err, &uce) {
			t.Fatalf("expected *UnknownCommandError, got %T", err)
		}
		if uce.Name != "nonexistent" {
			t.Errorf("Name = %q, want %q", uce.Name, "nonexistent")
		}
		if len(uce.Available) != 1 || uce.Available[0] != "hello" {
			t.Errorf("Available = %v, want [hello]", uce.Available)
		}
	})

	t.Run("names are sorted and exclude aliases", func(t *testing.T) {
		r := NewRegistry(addressbook.New())
		r.Register(Command{Name: "zebra", Aliases: []string{"z"}, Run: noop})
		r.Register(Command{Name: "alpha", Run: noop})

		got := r.Names()
		want := []string{"alpha", "zebra"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})

	t.Run("register panics on empty name", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for empty name")
			}
		}()
		NewRegistry(addressbook.New()).Register(Command{Run: noop})
	})

	t.Run("register panics on nil Run", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for nil Run")
			}
		}()
		NewRegistry(addressbook.New()).Register(Command{Name: "x"})
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantArgs []string
	}{
		{line: "", wantName: ""},
		{line: "   \t ", wantName: ""},
		{line: "hello", wantName: "hello"},
		{line: "  ADD   Alice 1234567890 ", wantName: "add", wantArgs: []string{"Alice", "1234567890"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, args := Parse(tt.line)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if strings.Join(args, "|") != strings.Join(tt.wantArgs, "|") {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestDispatch_ArgumentCount(t *testing.T) {
	r := NewRegistry(addressbook.New())
	r.Register(Command{Name: "two", Usage: "two <a> <b>", MinArgs: 2, MaxArgs: 2, Run: noop})
	r.Register(Command{Name: "many", Usage: "many <a>...", MinArgs: 1, MaxArgs: -1, Run: noop})

	tests := []struct {
		line    string
		wantErr bool
	}{
		{line: "two a b"},
		{line: "two a", wantErr: true},
		{line: "two a b c", wantErr: true},
		{line: "many a b c d e"},
		{line: "many", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := r.Dispatch(tt.line)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Dispatch() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("Dispatch() error = %v, want ErrUsage", err)
			}
			var ue *UsageError
			if !errors.As(err, &ue) || ue.Usage == "" {
				t.Errorf("expected *UsageError with usage, got %v", err)
			}
		})
	}
}

func TestDispatch_EmptyInput(t *testing.T) {
	_, err := NewRegistry(addressbook.New()).Dispatch("   ")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Dispatch(blank) error = %v, want ErrEmptyInput", err)
	}
}
