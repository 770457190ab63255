package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the tests fast
var testParams = Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 8, KeyLen: 16}

func TestHashAndVerify(t *testing.T) {
	h := HashPassword([]byte("correct horse"), testParams)
	require.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := VerifyPassword([]byte("correct horse"), h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword([]byte("battery staple"), h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a := HashPassword([]byte("pw"), testParams)
	b := HashPassword([]byte("pw"), testParams)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, h := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=18$m=1024,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=19$m=x,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$AAAA",
		"$argon2id$v=19$m=1024,t=1,p=1$AAAA$",
	} {
		_, err := VerifyPassword([]byte("pw"), h)
		assert.ErrorIs(t, err, ErrMalformedHash, h)
	}
}
