package datastores

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(seq iter.Seq[Contact]) []string {
	var ns []string
	for c := range seq {
		ns = append(ns, c.Name)
	}
	return ns
}

func TestContactsInmemAdd(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()

	c, err := s.Add(ctx, "alice", "+11234567890", "1990-05-17")
	require.NoError(t, err)
	assert.False(t, c.ID.IsZero())
	assert.Equal(t, "+11234567890", c.Phone.String())
	assert.Equal(t, "1990-05-17", c.Birthday.String())

	_, err = s.Add(ctx, "alice", "+19876543210", "")
	require.ErrorIs(t, err, ErrObjectExists)
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestContactsInmemAddOptionalFields(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()

	c, err := s.Add(ctx, "bob", "", "")
	require.NoError(t, err)
	assert.True(t, c.Phone.IsZero())
	assert.True(t, c.Birthday.IsZero())
}

func TestContactsInmemAddInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()

	_, err := s.Add(ctx, "alice", "123", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Add(ctx, "alice", "+11234567890", "2023-02-30")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Add(ctx, "", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, s.Len())
}

func TestContactsInmemNamesAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()

	_, err := s.Add(ctx, "Alice", "", "")
	require.NoError(t, err)
	_, err = s.Add(ctx, "alice", "", "")
	require.NoError(t, err)

	_, ok := s.Get(ctx, "ALICE")
	assert.False(t, ok)
	assert.Equal(t, []string{"Alice", "alice"}, names(s.All(ctx)))
}

func TestContactsInmemChangePhone(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()

	err := s.ChangePhone(ctx, "bob", "+19876543210")
	require.ErrorIs(t, err, ErrObjectNotFound)

	_, err = s.Add(ctx, "bob", "+11234567890", "1985-01-02")
	require.NoError(t, err)
	require.NoError(t, s.ChangePhone(ctx, "bob", "+19876543210"))

	c, _ := s.Get(ctx, "bob")
	assert.Equal(t, "+19876543210", c.Phone.String())
	assert.Equal(t, "1985-01-02", c.Birthday.String())

	require.ErrorIs(t, s.ChangePhone(ctx, "bob", "nope"), ErrInvalidInput)
	c, _ = s.Get(ctx, "bob")
	assert.Equal(t, "+19876543210", c.Phone.String())
}

func TestContactsInmemDeletePhone(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()

	require.ErrorIs(t, s.DeletePhone(ctx, "bob"), ErrObjectNotFound)

	_, err := s.Add(ctx, "bob", "+11234567890", "1985-01-02")
	require.NoError(t, err)
	require.NoError(t, s.DeletePhone(ctx, "bob"))

	c, ok := s.Get(ctx, "bob")
	require.True(t, ok)
	assert.True(t, c.Phone.IsZero())
	assert.Equal(t, "1985-01-02", c.Birthday.String())
	assert.Equal(t, 1, s.Len())
}

func TestContactsInmemGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()
	_, err := s.Add(ctx, "bob", "+11234567890", "")
	require.NoError(t, err)

	c, _ := s.Get(ctx, "bob")
	c.Phone = Phone{}
	c, _ = s.Get(ctx, "bob")
	assert.Equal(t, "+11234567890", c.Phone.String())
}

func TestContactsInmemSearch(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()
	for _, args := range [][2]string{
		{"alice", "+11234567890"},
		{"bob", "+380501234567"},
		{"albert", ""},
		{"carol", "+11987654321"},
	} {
		_, err := s.Add(ctx, args[0], args[1], "")
		require.NoError(t, err)
	}

	seq := s.Search(ctx, "al")
	assert.Equal(t, []string{"alice", "albert"}, names(seq))
	assert.Equal(t, []string{"alice", "albert"}, names(seq), "sequence is restartable")

	assert.Equal(t, []string{"alice", "carol"}, names(s.Search(ctx, "+11")))
	assert.Equal(t, []string{"bob"}, names(s.Search(ctx, "+38")))
	assert.Empty(t, names(s.Search(ctx, "zed")))
}

func TestContactsInmemSearchStopsEarly(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()
	for _, name := range []string{"al1", "al2", "al3"} {
		_, err := s.Add(ctx, name, "", "")
		require.NoError(t, err)
	}

	var got []string
	for c := range s.Search(ctx, "al") {
		got = append(got, c.Name)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"al1", "al2"}, got)
}

func TestContactsInmemList(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()
	for _, name := range []string{"carol", "alice", "bob", "albert"} {
		_, err := s.Add(ctx, name, "", "")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"albert", "alice", "bob", "carol"}, names(s.List(ctx, "")))
	assert.Equal(t, []string{"albert", "alice"}, names(s.List(ctx, "a")))
	assert.Empty(t, names(s.List(ctx, "z")))
	assert.Equal(t, []string{"carol", "alice", "bob", "albert"}, names(s.All(ctx)), "insertion order is kept")
}

func TestContactsInmemBirthdays(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem()
	_, err := s.Add(ctx, "carol", "", "1970-01-01")
	require.NoError(t, err)
	_, err = s.Add(ctx, "alice", "+11234567890", "")
	require.NoError(t, err)
	_, err = s.Add(ctx, "bob", "", "1980-02-29")
	require.NoError(t, err)

	assert.Equal(t, []string{"carol", "bob"}, names(s.Birthdays(ctx)))
}

func TestContactsInmemReset(t *testing.T) {
	ctx := context.Background()
	s := NewContactsInmem(Contact{Name: "old"})
	require.Equal(t, 1, s.Len())

	s.Reset([]Contact{{Name: "b"}, {Name: "a"}, {Name: "b"}})
	assert.Equal(t, []string{"b", "a"}, names(s.All(ctx)))
	for c := range s.All(ctx) {
		assert.False(t, c.ID.IsZero(), c.Name)
	}
	_, ok := s.Get(ctx, "old")
	assert.False(t, ok)
}
