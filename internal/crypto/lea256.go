package crypto

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	// LEAKeySize is the LEA-256 key length.
	LEAKeySize = 32
	// LEABlockSize is the LEA block length.
	LEABlockSize = 16

	leaRounds = 32
)

// leaDelta holds the key schedule constants of LEA.
var leaDelta = [8]uint32{
	0xc3efe9db, 0x44626b02, 0x79e27c8a, 0x78df30ec,
	0x715ea49e, 0xc785da0a, 0xe04ef22a, 0xe5c40957,
}

var leaShifts = [6]int{1, 3, 6, 11, 13, 17}

type lea struct {
	rk [leaRounds * 6]uint32
}

var _ cipher.Block = (*lea)(nil)

// NewLEA returns an LEA-256 block cipher.
func NewLEA(key []byte) (cipher.Block, error) {
	if len(key) != LEAKeySize {
		return nil, fmt.Errorf("crypto: lea key must be %d bytes, got %d", LEAKeySize, len(key))
	}
	var t [8]uint32
	for i := range t {
		t[i] = binary.LittleEndian.Uint32(key[i*4:])
	}

	c := &lea{}
	for i := 0; i < leaRounds; i++ {
		d := leaDelta[i&7]
		s := (i * 6) & 7
		for j := 0; j < 6; j++ {
			k := (s + j) & 7
			t[k] = bits.RotateLeft32(t[k]+bits.RotateLeft32(d, i+j), leaShifts[j])
			c.rk[i*6+j] = t[k]
		}
	}
	return c, nil
}

func (c *lea) BlockSize() int { return LEABlockSize }

func (c *lea) Encrypt(dst, src []byte) {
	s0, s1, s2, s3 := load(src)
	for r := 0; r < leaRounds; r++ {
		k := c.rk[r*6 : r*6+6]
		n0 := bits.RotateLeft32((s0^k[0])+(s1^k[1]), 9)
		n1 := bits.RotateLeft32((s1^k[2])+(s2^k[3]), -5)
		n2 := bits.RotateLeft32((s2^k[4])+(s3^k[5]), -3)
		s0, s1, s2, s3 = n0, n1, n2, s0
	}
	store(dst, s0, s1, s2, s3)
}

func (c *lea) Decrypt(dst, src []byte) {
	s0, s1, s2, s3 := load(src)
	for r := leaRounds - 1; r >= 0; r-- {
		k := c.rk[r*6 : r*6+6]
		p0 := s3
		p1 := (bits.RotateLeft32(s0, -9) - (p0 ^ k[0])) ^ k[1]
		p2 := (bits.RotateLeft32(s1, 5) - (p1 ^ k[2])) ^ k[3]
		p3 := (bits.RotateLeft32(s2, 3) - (p2 ^ k[4])) ^ k[5]
		s0, s1, s2, s3 = p0, p1, p2, p3
	}
	store(dst, s0, s1, s2, s3)
}

// DecryptECB decrypts data block by block. Its length must be a multiple of
// the block size.
func DecryptECB(b cipher.Block, data []byte) ([]byte, error) {
	bs := b.BlockSize()
	if len(data)%bs != 0 {
		return nil, fmt.Errorf("crypto: ecb input length %d is not a multiple of %d", len(data), bs)
	}
	out := make([]byte, len(data))
	for off := 0; off < len(data); off += bs {
		b.Decrypt(out[off:off+bs], data[off:off+bs])
	}
	return out, nil
}

// EncryptECB is the inverse of DecryptECB.
func EncryptECB(b cipher.Block, data []byte) ([]byte, error) {
	bs := b.BlockSize()
	if len(data)%bs != 0 {
		return nil, fmt.Errorf("crypto: ecb input length %d is not a multiple of %d", len(data), bs)
	}
	out := make([]byte, len(data))
	for off := 0; off < len(data); off += bs {
		b.Encrypt(out[off:off+bs], data[off:off+bs])
	}
	return out, nil
}

func load(b []byte) (uint32, uint32, uint32, uint32) {
	return binary.LittleEndian.Uint32(b[0:]), binary.LittleEndian.Uint32(b[4:]),
		binary.LittleEndian.Uint32(b[8:]), binary.LittleEndian.Uint32(b[12:])
}

func store(b []byte, s0, s1, s2, s3 uint32) {
	binary.LittleEndian.PutUint32(b[0:], s0)
	binary.LittleEndian.PutUint32(b[4:], s1)
	binary.LittleEndian.PutUint32(b[8:], s2)
	binary.LittleEndian.PutUint32(b[12:], s3)
}
