package internal

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"

	"gitee.com/golang-module/dongle"
)

// digest computes a 16-byte MD5 sum. Two implementations exist: the
// library-backed provider and a portable one used when the provider is
// unavailable on the host. The choice is made once, at construction, and is
// invisible to callers: both produce identical output for every input.
type digest interface {
	Sum(data []byte) [16]byte
}

// newDigest returns the provider-backed digest when it reproduces a known
// MD5 vector, otherwise the portable implementation.
func newDigest() digest {
	provider := providerDigest{}
	if providerHealthy(provider) {
		return provider
	}
	return portableDigest{}
}

func providerHealthy(d digest) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	// empty input is a degenerate case for some providers, probe it explicitly
	empty := d.Sum(nil)
	if hex.EncodeToString(empty[:]) != "d41d8cd98f00b204e9800998ecf8427e" {
		return false
	}
	sum := d.Sum([]byte("abc"))
	return hex.EncodeToString(sum[:]) == "900150983cd24fb0d6963f7d28e17f72"
}

type providerDigest struct{}

func (providerDigest) Sum(data []byte) [16]byte {
	// dongle renders no output for empty input; RFC 1321 still defines the
	// digest of the empty message
	if len(data) == 0 {
		return portableDigest{}.Sum(data)
	}
	hexSum := dongle.Encrypt.FromBytes(data).ByMd5().ToHexBytes()
	var sum [16]byte
	if n, err := hex.Decode(sum[:], hexSum); err != nil || n != len(sum) {
		return portableDigest{}.Sum(data)
	}
	return sum
}

// portableDigest is a self-contained MD5 per RFC 1321. Kept for hosts whose
// cryptographic provider refuses MD5; output is bit-for-bit identical to the
// provider path.
type portableDigest struct{}

// per-round left-rotation amounts
var md5Shifts = [64]int{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

// round constants: floor(abs(sin(i+1)) * 2^32)
var md5Table = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

func (portableDigest) Sum(data []byte) [16]byte {
	a0 := uint32(0x67452301)
	b0 := uint32(0xefcdab89)
	c0 := uint32(0x98badcfe)
	d0 := uint32(0x10325476)

	msg := md5Pad(data)

	var m [16]uint32
	for chunk := 0; chunk < len(msg); chunk += 64 {
		block := msg[chunk : chunk+64]
		for i := 0; i < 16; i++ {
			m[i] = binary.LittleEndian.Uint32(block[i*4:])
		}

		a, b, c, d := a0, b0, c0, d0
		for i := 0; i < 64; i++ {
			var f uint32
			var g int
			switch {
			case i < 16:
				f = (b & c) | (^b & d)
				g = i
			case i < 32:
				f = (d & b) | (^d & c)
				g = (5*i + 1) % 16
			case i < 48:
				f = b ^ c ^ d
				g = (3*i + 5) % 16
			default:
				f = c ^ (b | ^d)
				g = (7 * i) % 16
			}
			f += a + md5Table[i] + m[g]
			a = d
			d = c
			c = b
			b += bits.RotateLeft32(f, md5Shifts[i])
		}

		a0 += a
		b0 += b
		c0 += c
		d0 += d
	}

	var sum [16]byte
	binary.LittleEndian.PutUint32(sum[0:], a0)
	binary.LittleEndian.PutUint32(sum[4:], b0)
	binary.LittleEndian.PutUint32(sum[8:], c0)
	binary.LittleEndian.PutUint32(sum[12:], d0)
	return sum
}

// md5Pad appends the 0x80 marker, zero-pads to 56 bytes mod 64 and appends
// the original bit length as a 64-bit little-endian value.
func md5Pad(data []byte) []byte {
	length := uint64(len(data))
	padded := make([]byte, 0, len(data)+72)
	padded = append(padded, data...)
	padded = append(padded, 0x80)
	for len(padded)%64 != 56 {
		padded = append(padded, 0)
	}
	var bitLength [8]byte
	binary.LittleEndian.PutUint64(bitLength[:], length*8)
	return append(padded, bitLength[:]...)
}
