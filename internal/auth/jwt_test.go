package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_GenerateAndParse(t *testing.T) {
	issuer := NewIssuer("testsecret", time.Hour)

	token, expiresAt, err := issuer.Generate("shop-1", "Apollo")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "shop-1", claims.ShopID)
	assert.Equal(t, "Apollo", claims.ShopName)
	assert.Equal(t, time.Hour, issuer.TTL())
}

func TestIssuer_Parse(t *testing.T) {
	issuer := NewIssuer("testsecret", time.Hour)

	t.Run("Garbage", func(t *testing.T) {
		_, err := issuer.Parse("invalid-token-string")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewIssuer("secret2", time.Hour)
		token, _, err := other.Generate("shop-1", "Apollo")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "signature is invalid")
	})

	t.Run("Tampered", func(t *testing.T) {
		token, _, err := issuer.Generate("shop-1", "Apollo")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err = issuer.Parse(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		past := NewIssuer("testsecret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.Generate("shop-1", "Apollo")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("NoExpiry", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"shop_name": "Apollo"})
		signed, err := token.SignedString([]byte("testsecret"))
		require.NoError(t, err)

		_, err = issuer.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingShopName", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"shop_id": "shop-1",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("testsecret"))
		require.NoError(t, err)

		_, err = issuer.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"shop_name": "Apollo",
			"exp":       time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssuer_NoSecret(t *testing.T) {
	issuer := NewIssuer("", time.Hour)

	_, _, err := issuer.Generate("shop-1", "Apollo")
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = issuer.Parse("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
