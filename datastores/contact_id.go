package datastores

import (
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

// ContactID identifies a contact independently of its name.
// It is a UUIDv7 marshaled to and from text with [base64.RawURLEncoding].
type ContactID uuid.UUID

var contactIDEncoding = base64.RawURLEncoding //nolint: gochecknoglobals,nolintlint

func newContactID() ContactID { return ContactID(uuid.Must(uuid.NewV7())) }

func (id ContactID) IsZero() bool { return id == ContactID{} }

func (id ContactID) String() string {
	b, _ := id.AppendText(nil)
	return string(b)
}

// AppendText implements [encoding.TextAppender].
func (id ContactID) AppendText(b []byte) ([]byte, error) {
	return contactIDEncoding.AppendEncode(b, id[:]), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (id ContactID) MarshalText() ([]byte, error) {
	return id.AppendText(nil)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (id *ContactID) UnmarshalText(b []byte) error {
	if len(b) != contactIDEncoding.EncodedLen(len(id)) {
		return errors.New("invalid length")
	}
	_, err := contactIDEncoding.Decode(id[:], b)
	return err
}
