package datastores

import "regexp"

// phonePattern accepts an optional "+", a 1 to 3 digit country code and a 9
// or 10 digit subscriber number.
var phonePattern = regexp.MustCompile(`^\+?\d{1,3}?\d{9,10}$`)

// Phone is a validated phone number. The zero value means "no phone".
type Phone struct{ s string }

// ParsePhone validates text as a phone number.
func ParsePhone(text string) (Phone, error) {
	if !phonePattern.MatchString(text) {
		return Phone{}, &ValidationError{Msg: "invalid phone number format", Value: text}
	}
	return Phone{s: text}, nil
}

func (p Phone) IsZero() bool { return p.s == "" }

// String returns the phone number exactly as it was parsed.
func (p Phone) String() string { return p.s }

// MarshalText implements [encoding.TextMarshaler].
func (p Phone) MarshalText() ([]byte, error) { return []byte(p.s), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty text yields the zero value.
func (p *Phone) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = Phone{}
		return nil
	}
	v, err := ParsePhone(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
