package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smileynet/addrbook/internal/addressbook"
	"github.com/smileynet/addrbook/internal/contact"
)

// Default returns a Registry with the built-in assistant commands registered.
func Default(book *addressbook.Book) *Registry {
	r := NewRegistry(book)
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins registers the built-in assistant commands on r.
func RegisterBuiltins(r *Registry) {
	r.Register(Command{
		Name:    "hello",
		Usage:   "hello",
		Help:    "greet the assistant",
		MaxArgs: 0,
		Run: func(*addressbook.Book, []string) (Result, error) {
			return Result{Output: "How can I help you?"}, nil
		},
	})
	r.Register(Command{
		Name:    "add",
		Usage:   "add <name> [phone]",
		Help:    "create a contact or add a phone to an existing one",
		MinArgs: 1,
		MaxArgs: 2,
		Run:     runAdd,
	})
	r.Register(Command{
		Name:    "change",
		Usage:   "change <name> <old phone> <new phone>",
		Help:    "replace a contact's phone number",
		MinArgs: 3,
		MaxArgs: 3,
		Run:     runChange,
	})
	r.Register(Command{
		Name:    "phone",
		Usage:   "phone <name>",
		Help:    "show a contact's phone numbers",
		MinArgs: 1,
		MaxArgs: 1,
		Run:     runPhone,
	})
	r.Register(Command{
		Name:    "find-phone",
		Usage:   "find-phone <name> <phone>",
		Help:    "check whether a contact has a phone number",
		MinArgs: 2,
		MaxArgs: 2,
		Run:     runFindPhone,
	})
	r.Register(Command{
		Name:    "remove-phone",
		Usage:   "remove-phone <name> <phone>",
		Help:    "remove a phone number from a contact",
		MinArgs: 2,
		MaxArgs: 2,
		Run:     runRemovePhone,
	})
	r.Register(Command{
		Name:    "delete",
		Usage:   "delete <name>",
		Help:    "delete a contact",
		MinArgs: 1,
		MaxArgs: 1,
		Run:     runDelete,
	})
	r.Register(Command{
		Name:    "all",
		Usage:   "all",
		Help:    "list every contact",
		MaxArgs: 0,
		Run:     runAll,
	})
	r.Register(Command{
		Name:    "help",
		Usage:   "help",
		Help:    "list commands",
		MaxArgs: 0,
		Run: func(*addressbook.Book, []string) (Result, error) {
			return Result{Output: r.Usage()}, nil
		},
	})
	r.Register(Command{
		Name:    "exit",
		Aliases: []string{"close"},
		Usage:   "exit | close",
		Help:    "leave the assistant",
		MaxArgs: 0,
		Run: func(*addressbook.Book, []string) (Result, error) {
			return Result{Output: "Good bye!", Exit: true}, nil
		},
	})
}

// Usage renders one "usage - help" line per registered command, sorted by name.
func (r *Registry) Usage() string {
	names := r.Names()
	lines := make([]string, len(names))
	for i, name := range names {
		c := r.commands[name]
		lines[i] = fmt.Sprintf("%-38s %s", c.Usage, c.Help)
	}
	return strings.Join(lines, "\n")
}

func runAdd(book *addressbook.Book, args []string) (Result, error) {
	name := args[0]
	var phone string
	if len(args) > 1 {
		phone = args[1]
		// Validate before touching the book so a bad number never creates a contact.
		if err := contact.ValidatePhone(phone); err != nil {
			return Result{}, err
		}
	}

	rec, found := book.Find(name)
	if !found {
		rec = contact.NewRecord(name)
	}
	if phone != "" {
		if err := rec.AddPhone(phone); err != nil {
			return Result{}, err
		}
	}
	if found {
		return Result{Output: "Contact updated."}, nil
	}
	book.AddRecord(rec)
	return Result{Output: "Contact added."}, nil
}

func runChange(book *addressbook.Book, args []string) (Result, error) {
	name, oldPhone, newPhone := args[0], args[1], args[2]
	if err := contact.ValidatePhone(newPhone); err != nil {
		return Result{}, err
	}
	rec, err := lookup(book, name)
	if err != nil {
		return Result{}, err
	}
	if err := rec.EditPhone(oldPhone, newPhone); err != nil {
		return Result{}, err
	}
	return Result{Output: "Contact updated."}, nil
}

func runPhone(book *addressbook.Book, args []string) (Result, error) {
	rec, err := lookup(book, args[0])
	if err != nil {
		return Result{}, err
	}
	phones := rec.Phones()
	if len(phones) == 0 {
		return Result{Output: fmt.Sprintf("No phones for %s.", rec.Name())}, nil
	}
	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.Value()
	}
	return Result{Output: strings.Join(values, "; ")}, nil
}

func runFindPhone(book *addressbook.Book, args []string) (Result, error) {
	rec, err := lookup(book, args[0])
	if err != nil {
		return Result{}, err
	}
	p, ok := rec.FindPhone(args[1])
	if !ok {
		return Result{Output: "Phone not found."}, nil
	}
	return Result{Output: p.String()}, nil
}

func runRemovePhone(book *addressbook.Book, args []string) (Result, error) {
	rec, err := lookup(book, args[0])
	if err != nil {
		return Result{}, err
	}
	rec.RemovePhone(args[1])
	return Result{Output: "Phone removed."}, nil
}

func runDelete(book *addressbook.Book, args []string) (Result, error) {
	if err := book.Delete(args[0]); err != nil {
		return Result{}, err
	}
	return Result{Output: "Contact deleted."}, nil
}

func runAll(book *addressbook.Book, _ []string) (Result, error) {
	records := book.Records()
	if len(records) == 0 {
		return Result{Output: "No contacts saved."}, nil
	}
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = rec.String()
	}
	return Result{Output: strings.Join(lines, "\n")}, nil
}

// lookup finds name in book, reporting a miss as addressbook.ErrRecordNotFound.
func lookup(book *addressbook.Book, name string) (*contact.Record, error) {
	rec, ok := book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", addressbook.ErrRecordNotFound, name)
	}
	return rec, nil
}

// Describe turns a dispatch error into a message for the user.
func Describe(err error) string {
	var unknown *UnknownCommandError
	var usage *UsageError
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "error: enter a command (try: help)"
	case errors.As(err, &unknown):
		return fmt.Sprintf("error: unknown command %q (try: help)", unknown.Name)
	case errors.As(err, &usage):
		return "error: " + usage.Error()
	case errors.Is(err, contact.ErrInvalidPhoneFormat):
		return "error: phone number must be exactly 10 digits"
	case errors.Is(err, contact.ErrPhoneNotFound):
		return "error: phone number not found"
	case errors.Is(err, addressbook.ErrRecordNotFound):
		return "error: contact not found"
	default:
		return "error: " + err.Error()
	}
}
