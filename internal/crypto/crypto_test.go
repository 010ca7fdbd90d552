package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXORRoundTrip(t *testing.T) {
	x, err := NewXOR(bytes.Repeat([]byte{0xA5}, XORKeySize))
	require.NoError(t, err)

	plain := []byte("BMD mesh payload, forty-odd bytes long....")
	enc := x.Encrypt(plain)
	assert.NotEqual(t, plain, enc)
	assert.Equal(t, plain, x.Decrypt(enc))
}

func TestXORKeyLength(t *testing.T) {
	_, err := NewXOR(make([]byte, 8))
	assert.Error(t, err)
}

// KISA reference vector, 256-bit key.
func TestLEAVector(t *testing.T) {
	key, _ := hex.DecodeString("0f1e2d3c4b5a69788796a5b4c3d2e1f0f0e1d2c3b4a5968778695a4b3c2d1e0f")
	plain, _ := hex.DecodeString("303132333435363738393a3b3c3d3e3f")
	want, _ := hex.DecodeString("d651aff647b189c13a8900ca27f9e197")

	block, err := NewLEA(key)
	require.NoError(t, err)

	got := make([]byte, LEABlockSize)
	block.Encrypt(got, plain)
	assert.Equal(t, want, got)

	back := make([]byte, LEABlockSize)
	block.Decrypt(back, got)
	assert.Equal(t, plain, back)
}

func TestLEAECBRoundTrip(t *testing.T) {
	block, err := NewLEA(bytes.Repeat([]byte{7}, LEAKeySize))
	require.NoError(t, err)

	plain := bytes.Repeat([]byte("0123456789abcdef"), 4)
	enc, err := EncryptECB(block, plain)
	require.NoError(t, err)
	dec, err := DecryptECB(block, enc)
	require.NoError(t, err)
	assert.Equal(t, plain, dec)

	_, err = DecryptECB(block, plain[:15])
	assert.Error(t, err)
}
