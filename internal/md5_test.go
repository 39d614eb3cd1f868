package internal

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 1321 appendix A.5 test suite
var md5Vectors = []struct {
	input string
	want  string
}{
	{"", "d41d8cd98f00b204e9800998ecf8427e"},
	{"a", "0cc175b9c0f1b6a831c399e269772661"},
	{"abc", "900150983cd24fb0d6963f7d28e17f72"},
	{"message digest", "f96b697d7cb7938d525a2f31aaf161d0"},
	{"abcdefghijklmnopqrstuvwxyz", "c3fcd3d76192e4007dfb496cca67e13b"},
	{"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789", "d174ab98d277d9f5a5611c2c9f419d9f"},
	{"12345678901234567890123456789012345678901234567890123456789012345678901234567890", "57edf4a22be3c955ac49da2e2107b67a"},
}

func TestPortableDigest_Vectors(t *testing.T) {
	d := portableDigest{}
	for _, tc := range md5Vectors {
		sum := d.Sum([]byte(tc.input))
		assert.Equal(t, tc.want, hex.EncodeToString(sum[:]), "MD5(%q)", tc.input)
	}
}

func TestProviderDigest_Vectors(t *testing.T) {
	d := providerDigest{}
	for _, tc := range md5Vectors {
		sum := d.Sum([]byte(tc.input))
		assert.Equal(t, tc.want, hex.EncodeToString(sum[:]), "MD5(%q)", tc.input)
	}
}

// Both strategies must agree on every input, in particular around the
// 64-byte block and 56-byte padding boundaries.
func TestDigest_StrategiesAgree(t *testing.T) {
	provider := providerDigest{}
	portable := portableDigest{}
	for _, size := range []int{0, 1, 54, 55, 56, 57, 63, 64, 65, 119, 120, 128, 1000} {
		input := []byte(strings.Repeat("x", size))
		assert.Equal(t, provider.Sum(input), portable.Sum(input), "input length %d", size)
	}
}

// Empty input is the degenerate case: the provider renders no output for it
// and must fall through to the portable digest instead of a zero sum.
func TestProviderDigest_EmptyInput(t *testing.T) {
	provider := providerDigest{}
	sum := provider.Sum([]byte{})
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", hex.EncodeToString(sum[:]))
	assert.Equal(t, portableDigest{}.Sum(nil), provider.Sum(nil))
}

func TestNewDigest_SelectsWorkingImplementation(t *testing.T) {
	d := newDigest()
	require.NotNil(t, d)
	sum := d.Sum([]byte("abc"))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", hex.EncodeToString(sum[:]))
}

func TestProviderHealthy_RejectsBrokenProvider(t *testing.T) {
	assert.True(t, providerHealthy(providerDigest{}))
	assert.False(t, providerHealthy(brokenDigest{}))
	assert.False(t, providerHealthy(panicDigest{}))
}

type brokenDigest struct{}

func (brokenDigest) Sum([]byte) [16]byte { return [16]byte{} }

type panicDigest struct{}

func (panicDigest) Sum([]byte) [16]byte { panic("md5 disabled") }
