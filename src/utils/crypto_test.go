package utils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	plain := `{"boleto_id":42,"codigo":"abc-123"}`

	encrypted, err := EncryptMessage(key, plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, encrypted)

	decrypted, err := DecryptMessage(key, encrypted)
	require.NoError(t, err)
	assert.Equal(t, plain, *decrypted)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	encrypted, err := EncryptMessage(testKey(t), "mensaje secreto")
	require.NoError(t, err)

	_, err = DecryptMessage(testKey(t), encrypted)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	key := testKey(t)

	_, err := DecryptMessage(key, "no-es-hex")
	assert.Error(t, err)

	_, err = DecryptMessage(key, "abcd")
	assert.Error(t, err)
}
