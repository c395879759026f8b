package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	req := require.New(t)

	payload := &Payload{UserID: "user-123", Email: "demo@example.com"}

	tokenString, err := GenerateToken(payload, testSecret, UserIdentityExpiration)
	req.NoError(err)
	req.NotEmpty(tokenString)

	parsed, err := ParseToken(tokenString, testSecret)
	req.NoError(err)
	req.Equal("user-123", parsed.UserID)
	req.Equal("demo@example.com", parsed.Email)
	req.Equal(TokenIssuer, parsed.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	req := require.New(t)

	tokenString, err := GenerateToken(&Payload{UserID: "user-123"}, testSecret, UserIdentityExpiration)
	req.NoError(err)

	_, err = ParseToken(tokenString, "another-secret")
	req.Error(err)
}

func TestParseToken_Expired(t *testing.T) {
	req := require.New(t)

	tokenString, err := GenerateToken(&Payload{UserID: "user-123"}, testSecret, -time.Minute)
	req.NoError(err)

	_, err = ParseToken(tokenString, testSecret)
	req.Error(err)
}

func TestParseToken_Garbage(t *testing.T) {
	req := require.New(t)

	_, err := ParseToken("not.a.token", testSecret)
	req.Error(err)

	_, err = ParseToken("", testSecret)
	req.Error(err)
}
