package datastores

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
)

// ContactsInmem implements [ContactsStore].
// Contacts are kept in insertion order and indexed by name.
type ContactsInmem struct {
	mu       sync.Mutex
	index    map[string]int
	contacts []*Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

func NewContactsInmem(cs ...Contact) *ContactsInmem {
	s := new(ContactsInmem)
	s.reset(cs)
	return s
}

// reset replaces the contents. Later duplicates of a name are dropped.
func (s *ContactsInmem) reset(cs []Contact) {
	s.index = make(map[string]int, len(cs))
	s.contacts = make([]*Contact, 0, len(cs))
	for _, c := range cs {
		if _, ok := s.index[c.Name]; ok {
			continue
		}
		if c.ID.IsZero() {
			c.ID = newContactID()
		}
		s.index[c.Name] = len(s.contacts)
		s.contacts = append(s.contacts, &c)
	}
}

// Reset replaces the whole contents of the store with cs.
func (s *ContactsInmem) Reset(cs []Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(cs)
}

func (s *ContactsInmem) Add(_ context.Context, name, phone, birthday string) (Contact, error) {
	if name == "" {
		return Contact{}, &ValidationError{Msg: "invalid name", Value: name}
	}
	c := Contact{Name: name}
	if phone != "" {
		p, err := ParsePhone(phone)
		if err != nil {
			return Contact{}, err
		}
		c.Phone = p
	}
	if birthday != "" {
		b, err := ParseBirthday(birthday)
		if err != nil {
			return Contact{}, err
		}
		c.Birthday = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[name]; ok {
		return Contact{}, fmt.Errorf("%w: %s", ErrObjectExists, name)
	}
	c.ID = newContactID()
	s.index[name] = len(s.contacts)
	s.contacts = append(s.contacts, &c)
	return c, nil
}

func (s *ContactsInmem) ChangePhone(_ context.Context, name, phone string) error {
	p, err := ParsePhone(phone)
	if err != nil {
		return err
	}
	return s.update(name, func(c *Contact) { c.Phone = p })
}

// DeletePhone clears the phone of a contact. The contact and its birthday remain.
func (s *ContactsInmem) DeletePhone(_ context.Context, name string) error {
	return s.update(name, func(c *Contact) { c.Phone = Phone{} })
}

func (s *ContactsInmem) update(name string, fn func(*Contact)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	c := *s.contacts[i]
	fn(&c)
	s.contacts[i] = &c
	return nil
}

func (s *ContactsInmem) Get(_ context.Context, name string) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[name]
	if !ok {
		return Contact{}, false
	}
	return *s.contacts[i], true
}

func (s *ContactsInmem) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

// snapshot returns a copy of the contacts in insertion order.
func (s *ContactsInmem) snapshot() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := make([]Contact, len(s.contacts))
	for i, c := range s.contacts {
		cs[i] = *c
	}
	return cs
}

// filter yields the contacts matching keep, in insertion order.
// The contacts are copied when iteration starts so the sequence can be restarted.
func (s *ContactsInmem) filter(keep func(*Contact) bool) iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		for _, c := range s.snapshot() {
			if keep(&c) && !yield(c) {
				return
			}
		}
	}
}

// All yields every contact in insertion order.
func (s *ContactsInmem) All(_ context.Context) iter.Seq[Contact] {
	return s.filter(func(*Contact) bool { return true })
}

// Search yields the contacts whose name or phone starts with pattern, in insertion order.
func (s *ContactsInmem) Search(_ context.Context, pattern string) iter.Seq[Contact] {
	return s.filter(func(c *Contact) bool {
		return strings.HasPrefix(c.Name, pattern) ||
			!c.Phone.IsZero() && strings.HasPrefix(c.Phone.String(), pattern)
	})
}

// Birthdays yields the contacts having a birthday, in insertion order.
func (s *ContactsInmem) Birthdays(_ context.Context) iter.Seq[Contact] {
	return s.filter(func(c *Contact) bool { return !c.Birthday.IsZero() })
}

// List yields the contacts whose name starts with prefix, sorted by name.
func (s *ContactsInmem) List(_ context.Context, prefix string) iter.Seq[Contact] {
	return func(yield func(Contact) bool) {
		cs := slices.DeleteFunc(s.snapshot(), func(c Contact) bool {
			return !strings.HasPrefix(c.Name, prefix)
		})
		slices.SortFunc(cs, func(a, b Contact) int { return cmp.Compare(a.Name, b.Name) })
		for _, c := range cs {
			if !yield(c) {
				return
			}
		}
	}
}
