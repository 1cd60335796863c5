package datastores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhone(t *testing.T) {
	for _, text := range []string{
		"+11234567890",
		"1234567890",
		"+380501234567",
		"3805012345678",
		"+1123456789",
	} {
		t.Run(text, func(t *testing.T) {
			p, err := ParsePhone(text)
			require.NoError(t, err)
			assert.Equal(t, text, p.String())
			assert.False(t, p.IsZero())
		})
	}
}

func TestParsePhoneInvalid(t *testing.T) {
	for _, text := range []string{
		"",
		"123",
		"abc1234567",
		"+++123456789",
		"123456789",
		"12345678901234",
		"+1 234567890",
		"1234567890+",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParsePhone(text)
			require.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "invalid phone number format: "+text, verr.Error())
		})
	}
}

func TestPhoneText(t *testing.T) {
	var p Phone
	require.NoError(t, p.UnmarshalText(nil))
	assert.True(t, p.IsZero())

	require.NoError(t, p.UnmarshalText([]byte("+11234567890")))
	b, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "+11234567890", string(b))

	require.ErrorIs(t, p.UnmarshalText([]byte("123")), ErrInvalidInput)
}
