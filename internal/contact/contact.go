// Package contact implements the contact data model: fields, phones and records.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrInvalidPhoneFormat = errors.New("contact: phone number must be 10 digits")
	ErrPhoneNotFound      = errors.New("contact: phone number not found")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Field is a single-valued contact attribute.
// Name and Phone are its two variants.
type Field interface {
	Value() string
	String() string
}

// Compile-time checks.
var (
	_ Field = Name{}
	_ Field = Phone{}
)

type field struct {
	value string
}

func (f field) Value() string  { return f.value }
func (f field) String() string { return f.value }

// Name holds a contact's name. It is not validated.
type Name struct {
	field
}

// NewName wraps value as a Name.
func NewName(value string) Name {
	return Name{field{value: value}}
}

// Phone holds a phone number of exactly 10 ASCII digits.
type Phone struct {
	field
}

// NewPhone validates value and wraps it as a Phone.
func NewPhone(value string) (Phone, error) {
	if err := ValidatePhone(value); err != nil {
		return Phone{}, err
	}
	return Phone{field{value: value}}, nil
}

// ValidatePhone reports whether value is exactly 10 ASCII digits.
func ValidatePhone(value string) error {
	if !phonePattern.MatchString(value) {
		return fmt.Errorf("%w: %q", ErrInvalidPhoneFormat, value)
	}
	return nil
}

// Record is one contact: a name and an ordered list of phone numbers.
// Duplicate phone numbers are allowed.
type Record struct {
	name   Name
	phones []Phone
}

// NewRecord creates a Record with a trimmed name and no phones.
func NewRecord(name string) *Record {
	return &Record{name: NewName(strings.TrimSpace(name))}
}

// Name returns the record's name.
func (r *Record) Name() Name {
	return r.name
}

// Phones returns a copy of the record's phones in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// AddPhone validates phone and appends it.
// The record is unchanged if validation fails.
func (r *Record) AddPhone(phone string) error {
	p, err := NewPhone(phone)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes every phone equal to phone. Missing numbers are ignored.
func (r *Record) RemovePhone(phone string) {
	kept := r.phones[:0]
	for _, p := range r.phones {
		if p.value != phone {
			kept = append(kept, p)
		}
	}
	// Zero the tail so dropped values are not retained by the backing array.
	for i := len(kept); i < len(r.phones); i++ {
		r.phones[i] = Phone{}
	}
	r.phones = kept
}

// EditPhone replaces the first phone equal to oldPhone with newPhone.
// newPhone is stored as given and is not validated; callers that need the
// 10-digit guarantee must call ValidatePhone first.
func (r *Record) EditPhone(oldPhone, newPhone string) error {
	for i := range r.phones {
		if r.phones[i].value == oldPhone {
			r.phones[i].value = newPhone
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrPhoneNotFound, oldPhone)
}

// FindPhone returns the first phone equal to phone.
func (r *Record) FindPhone(phone string) (Phone, bool) {
	for _, p := range r.phones {
		if p.value == phone {
			return p, true
		}
	}
	return Phone{}, false
}

// String renders the record as "Contact name: <name>, phones: <p1>; <p2>".
func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.value
	}
	return fmt.Sprintf("Contact name: %s, phones: %s", r.name.value, strings.Join(values, "; "))
}
