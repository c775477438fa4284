// Package command parses assistant commands and applies them to an address book.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/smileynet/addrbook/internal/addressbook"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrEmptyInput = errors.New("command: empty input")
	ErrUsage      = errors.New("command: invalid arguments")
)

// Result is the outcome of a dispatched command.
type Result struct {
	Output string
	Exit   bool // The session should end.
}

// RunFunc executes a command against book with already-counted args.
type RunFunc func(book *addressbook.Book, args []string) (Result, error)

// Command describes one assistant command.
type Command struct {
	Name    string
	Aliases []string
	Usage   string // e.g. "add <name> [phone]"
	Help    string
	MinArgs int
	MaxArgs int // Negative means unbounded.
	Run     RunFunc
}

// Registry maps command names and aliases to commands bound to one book.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	book     *addressbook.Book
	commands map[string]Command
	aliases  map[string]string
}

// NewRegistry creates an empty Registry operating on book.
func NewRegistry(book *addressbook.Book) *Registry {
	return &Registry{
		book:     book,
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Book returns the address book commands operate on.
func (r *Registry) Book() *addressbook.Book {
	return r.book
}

// Register adds a command. Overwrites if the name already exists.
// Panics if the name is empty or Run is nil (programmer error).
func (r *Registry) Register(c Command) {
	if c.Name == "" {
		panic("command: Register called with empty name")
	}
	if c.Run == nil {
		panic("command: Register called with nil Run")
	}
	name := strings.ToLower(c.Name)
	r.commands[name] = c
	for _, a := range c.Aliases {
		r.aliases[strings.ToLower(a)] = name
	}
}

// Lookup returns the command registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Command, error) {
	name = strings.ToLower(name)
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	c, ok := r.commands[name]
	if !ok {
		return Command{}, &UnknownCommandError{
			Name:      name,
			Available: r.Names(),
		}
	}
	return c, nil
}

// Names returns registered command names in sorted order. Aliases are excluded.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch parses line and runs the matching command.
func (r *Registry) Dispatch(line string) (Result, error) {
	name, args := Parse(line)
	if name == "" {
		return Result{}, ErrEmptyInput
	}

	c, err := r.Lookup(name)
	if err != nil {
		return Result{}, err
	}

	if len(args) < c.MinArgs || (c.MaxArgs >= 0 && len(args) > c.MaxArgs) {
		return Result{}, &UsageError{Usage: c.Usage}
	}
	return c.Run(r.book, args)
}

// Parse splits line into a lower-cased command name and its arguments.
// A blank line yields an empty name.
func Parse(line string) (name string, args []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// UnknownCommandError indicates a command name is not registered.
type UnknownCommandError struct {
	Name      string
	Available []string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// UsageError indicates a command received the wrong number of arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s", e.Usage)
}

// Unwrap lets errors.Is match ErrUsage.
func (e *UsageError) Unwrap() error {
	return ErrUsage
}
