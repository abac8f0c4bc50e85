package cursor

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	token := Encode(Key{Sort: 1700000000000000000, ID: "post-123"})
	require.NotEmpty(t, token)

	k, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000000000), k.Sort)
	assert.Equal(t, "post-123", k.ID)
	assert.Equal(t, 1, k.Version)
}

func TestRoundTripZeroSort(t *testing.T) {
	// Zero is a valid sort position, not a missing field.
	k, err := Decode(Encode(Key{Sort: 0, ID: "post-0"}))
	require.NoError(t, err)
	assert.Zero(t, k.Sort)
	assert.Equal(t, "post-0", k.ID)
}

func TestTokenIsURLSafe(t *testing.T) {
	token := Encode(Key{Sort: 42, ID: "a/b+c?d=e"})
	_, err := base64.RawURLEncoding.DecodeString(token)
	assert.NoError(t, err)
}

func TestDecodeMalformedBase64(t *testing.T) {
	_, err := Decode("%%%not-base64%%%")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeMalformedJSON(t *testing.T) {
	token := base64.RawURLEncoding.EncodeToString([]byte("not json at all"))
	_, err := Decode(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeMissingKeyFields(t *testing.T) {
	for _, payload := range []string{
		`{"v":1}`,
		`{"v":1,"s":10}`,
		`{"v":1,"k":"id"}`,
	} {
		token := base64.RawURLEncoding.EncodeToString([]byte(payload))
		_, err := Decode(token)
		assert.ErrorIs(t, err, ErrInvalid, payload)
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	token := base64.RawURLEncoding.EncodeToString([]byte(`{"v":2,"s":10,"k":"id"}`))
	_, err := Decode(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeEmptyToken(t *testing.T) {
	_, err := Decode("")
	assert.ErrorIs(t, err, ErrInvalid)
}
