package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", 30*time.Minute)

	signed, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := svc.Verify(signed)
	assert.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestService_Verify(t *testing.T) {
	svc := NewService("test-secret", 30*time.Minute)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage input",
			token: func(t *testing.T) string {
				return "not-a-token"
			},
		},
		{
			name: "empty input",
			token: func(t *testing.T) string {
				return ""
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				signed, err := NewService("other-secret", 30*time.Minute).Issue("alice")
				require.NoError(t, err)
				return signed
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				signed, err := NewService("test-secret", -time.Minute).Issue("alice")
				require.NoError(t, err)
				return signed
			},
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				claims := jwt.RegisteredClaims{
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
				}
				signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
				require.NoError(t, err)
				return signed
			},
		},
		{
			name: "unexpected signing method",
			token: func(t *testing.T) string {
				claims := jwt.RegisteredClaims{
					Subject:   "alice",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
				}
				signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Verify(tt.token(t))
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, subject)
		})
	}
}

func TestService_IssueDifferentSubjects(t *testing.T) {
	svc := NewService("test-secret", 30*time.Minute)

	a, err := svc.Issue("alice")
	require.NoError(t, err)
	b, err := svc.Issue("bob")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	subject, err := svc.Verify(b)
	assert.NoError(t, err)
	assert.Equal(t, "bob", subject)
}
