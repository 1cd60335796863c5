package datastores

import (
	"context"
	"errors"
	"iter"
)

type Contact struct {
	ID       ContactID
	Name     string
	Phone    Phone
	Birthday Birthday
}

type ContactsStore interface {
	Add(ctx context.Context, name, phone, birthday string) (Contact, error)
	ChangePhone(ctx context.Context, name, phone string) error
	DeletePhone(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (Contact, bool)
	Search(ctx context.Context, pattern string) iter.Seq[Contact]
	List(ctx context.Context, prefix string) iter.Seq[Contact]
	Birthdays(ctx context.Context) iter.Seq[Contact]
	All(ctx context.Context) iter.Seq[Contact]
	Len() int
	Reset(cs []Contact)
}

var (
	ErrObjectNotFound  = errors.New("store: object not found")
	ErrObjectExists    = errors.New("store: object already exists")
	ErrInvalidInput    = errors.New("store: invalid input")
	ErrSnapshotCorrupt = errors.New("store: snapshot corrupt")
)

// ValidationError reports a malformed field value. It matches [ErrInvalidInput].
type ValidationError struct {
	Msg   string
	Value string
}

func (e *ValidationError) Error() string { return e.Msg + ": " + e.Value }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
