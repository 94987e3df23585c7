package helpers

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(secret, "abc123", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.ID)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, TokenIssuer, claims.Issuer)
}

func TestParseTokenRejects(t *testing.T) {
	token, err := GenerateToken(secret, "abc123", "user", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired, err := GenerateToken(secret, "abc123", "user", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = ParseToken(secret, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// flipChar swaps one base64url character for a different one.
func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestParseTokenRejectsSingleCharacterChanges(t *testing.T) {
	token, err := GenerateToken(secret, "abc123", "user", time.Hour)
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// the last character of a segment can carry padding bits, so positions
	// stay clear of it
	tests := []struct {
		name    string
		segment int
		pos     int
	}{
		{"header first", 0, 0},
		{"header middle", 0, len(parts[0]) / 2},
		{"payload first", 1, 0},
		{"payload middle", 1, len(parts[1]) / 2},
		{"payload near end", 1, len(parts[1]) - 2},
		{"signature first", 2, 0},
		{"signature middle", 2, len(parts[2]) / 2},
		{"signature near end", 2, len(parts[2]) - 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := make([]string, 3)
			copy(changed, parts)
			changed[tt.segment] = flipChar(changed[tt.segment], tt.pos)
			require.NotEqual(t, parts[tt.segment], changed[tt.segment])

			_, err := ParseToken(secret, strings.Join(changed, "."))
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	claims := Claims{
		ID:   "abc123",
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerateTokenNeedsSecret(t *testing.T) {
	_, err := GenerateToken(nil, "abc", "user", time.Hour)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTicketQRCode(t *testing.T) {
	assert.Equal(t, "http://host/tickets/42", TicketLink("http://host/tickets/", "42"))

	qr, err := TicketQRCode("http://host/tickets", "42")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(qr, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/eventx-studio/abc-123.png": "eventx-studio/abc-123",
		"http://res.cloudinary.com/demo/image/upload/eventx-studio/pic.jpg":            "eventx-studio/pic",
		"images/1700000000-photo.png": "",
		"":                            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, PublicIDFromURL(in), in)
	}
}

func TestRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, RemoveDuplicates([]string{" a", "b", "a ", "", "b"}))
	assert.Empty(t, RemoveDuplicates(nil))
}
