package crypto

import "fmt"

// XORKeySize is the key length of the chained XOR cipher.
const XORKeySize = 16

const (
	xorSeed  = 0x5E
	xorChain = 0x3D
)

// XOR is the chained XOR cipher used by BMD version 12 files.
//
//	out[i] = (in[i] ^ key[i&15]) - chain
//	chain  = in[i] + 0x3D
type XOR struct {
	key [XORKeySize]byte
}

// NewXOR returns the cipher for a 16-byte key.
func NewXOR(key []byte) (*XOR, error) {
	if len(key) != XORKeySize {
		return nil, fmt.Errorf("crypto: xor key must be %d bytes, got %d", XORKeySize, len(key))
	}
	x := &XOR{}
	copy(x.key[:], key)
	return x, nil
}

// Decrypt returns the plaintext of data.
func (x *XOR) Decrypt(data []byte) []byte {
	out := make([]byte, len(data))
	chain := byte(xorSeed)
	for i, b := range data {
		out[i] = (b ^ x.key[i&15]) - chain
		chain = b + xorChain
	}
	return out
}

// Encrypt is the inverse of Decrypt.
func (x *XOR) Encrypt(data []byte) []byte {
	out := make([]byte, len(data))
	chain := byte(xorSeed)
	for i, b := range data {
		out[i] = (b + chain) ^ x.key[i&15]
		chain = out[i] + xorChain
	}
	return out
}
