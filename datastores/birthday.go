package datastores

import (
	"regexp"
	"time"
)

var birthdayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Birthday is a validated calendar date. The zero value means "no birthday".
type Birthday struct {
	t  time.Time
	ok bool
}

// ParseBirthday parses text strictly as YYYY-MM-DD and rejects impossible dates.
func ParseBirthday(text string) (Birthday, error) {
	if !birthdayPattern.MatchString(text) {
		return Birthday{}, &ValidationError{Msg: "invalid birthday format", Value: text}
	}
	t, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return Birthday{}, &ValidationError{Msg: "invalid birthday", Value: text}
	}
	return Birthday{t: t, ok: true}, nil
}

func (b Birthday) IsZero() bool { return !b.ok }

// Time returns the birthday at midnight UTC.
func (b Birthday) Time() time.Time { return b.t }

func (b Birthday) String() string {
	if b.IsZero() {
		return ""
	}
	return b.t.Format(time.DateOnly)
}

// DaysUntil returns the number of days from today to the next occurrence of
// the birthday, 0 when today is the birthday.
//
// A Feb 29 birthday falls on Mar 1 in non-leap years.
func (b Birthday) DaysUntil(today time.Time) int {
	y, m, d := today.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	next := b.occurrence(y)
	if next.Before(from) {
		next = b.occurrence(y + 1)
	}
	return int(next.Sub(from).Hours() / 24) //nolint: mnd // hours per day
}

// occurrence returns the birthday in the given year. [time.Date] normalizes
// Feb 29 of a non-leap year to Mar 1.
func (b Birthday) occurrence(year int) time.Time {
	return time.Date(year, b.t.Month(), b.t.Day(), 0, 0, 0, 0, time.UTC)
}

// MarshalText implements [encoding.TextMarshaler].
func (b Birthday) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty text yields the zero value.
func (b *Birthday) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*b = Birthday{}
		return nil
	}
	v, err := ParseBirthday(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
