// Package addressbook stores contact records keyed by name.
package addressbook

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/smileynet/addrbook/internal/contact"
)

// ErrRecordNotFound indicates no record exists for a name.
var ErrRecordNotFound = errors.New("addressbook: record not found")

// Book maps contact names to records. It holds at most one record per name.
// It is not safe for concurrent use.
type Book struct {
	records map[string]*contact.Record
}

// New creates an empty Book.
func New() *Book {
	return &Book{records: make(map[string]*contact.Record)}
}

// AddRecord stores r under its name, replacing any record with the same name.
func (b *Book) AddRecord(r *contact.Record) {
	b.records[r.Name().Value()] = r
}

// Find returns the record for name. Surrounding whitespace in name is ignored.
func (b *Book) Find(name string) (*contact.Record, bool) {
	r, ok := b.records[strings.TrimSpace(name)]
	return r, ok
}

// Delete removes the record stored under exactly name.
// Unlike Find, name is not trimmed.
func (b *Book) Delete(name string) error {
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrRecordNotFound, name)
	}
	delete(b.records, name)
	return nil
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.records)
}

// Records returns all records sorted by name.
func (b *Book) Records() []*contact.Record {
	names := make([]string, 0, len(b.records))
	for name := range b.records {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*contact.Record, len(names))
	for i, name := range names {
		out[i] = b.records[name]
	}
	return out
}
