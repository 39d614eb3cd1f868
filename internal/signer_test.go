package internal

import (
	"crypto/md5"
	"encoding/hex"
	"payfast/entity"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerSet(t *testing.T) *entity.ParameterSet {
	t.Helper()
	set := entity.NewParameterSet()
	require.NoError(t, set.Add("merchant-id", "10000100"))
	require.NoError(t, set.Add("version", "v1"))
	require.NoError(t, set.Add("timestamp", "2024-01-01T00:00:00"))
	return set
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestCanonicalize_SortedKeys(t *testing.T) {
	signer := NewSigner("")
	canonical := signer.Canonicalize(headerSet(t))
	assert.Equal(t, "merchant-id=10000100&timestamp=2024-01-01T00%3A00%3A00&version=v1", canonical)
}

func TestCanonicalize_InsertionOrderIndependent(t *testing.T) {
	signer := NewSigner("")

	reversed := entity.NewParameterSet()
	require.NoError(t, reversed.Add("version", "v1"))
	require.NoError(t, reversed.Add("timestamp", "2024-01-01T00:00:00"))
	require.NoError(t, reversed.Add("merchant-id", "10000100"))

	assert.Equal(t, signer.Canonicalize(headerSet(t)), signer.Canonicalize(reversed))
	assert.Equal(t, signer.CreateSignature(headerSet(t)), signer.CreateSignature(reversed))
}

func TestCanonicalize_PassphraseAppendedAfterSort(t *testing.T) {
	signer := NewSigner("secret")
	canonical := signer.Canonicalize(headerSet(t))
	// passphrase sorts before "timestamp" alphabetically but must stay last
	assert.Equal(t, "merchant-id=10000100&timestamp=2024-01-01T00%3A00%3A00&version=v1&passphrase=secret", canonical)
}

func TestCanonicalize_PassphraseEscaped(t *testing.T) {
	signer := NewSigner("pass phrase&more")
	canonical := signer.Canonicalize(entity.NewParameterSet())
	assert.Equal(t, "passphrase=pass+phrase%26more", canonical)
}

func TestSign_MatchesMd5OfCanonicalString(t *testing.T) {
	signer := NewSigner("")
	canonical := signer.Canonicalize(headerSet(t))
	signature := signer.Sign(canonical)

	assert.Len(t, signature, 32)
	assert.Equal(t, strings.ToLower(signature), signature)
	assert.Equal(t, md5Hex(canonical), signature)
}

func TestSign_EmptyCanonicalString(t *testing.T) {
	// an empty set with no passphrase canonicalizes to "", whose digest is
	// still the MD5 of the empty message
	signer := NewSigner("")
	assert.Equal(t, "", signer.Canonicalize(entity.NewParameterSet()))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", signer.Sign(""))
}

func TestSign_PassphraseChangesSignature(t *testing.T) {
	plain := NewSigner("").CreateSignature(headerSet(t))
	withPassphrase := NewSigner("secret").CreateSignature(headerSet(t))
	assert.NotEqual(t, plain, withPassphrase)
}

func TestSign_Idempotent(t *testing.T) {
	signer := NewSigner("secret")
	assert.Equal(t, signer.CreateSignature(headerSet(t)), signer.CreateSignature(headerSet(t)))
}

func TestEscape_SubstitutionTable(t *testing.T) {
	cases := map[string]string{
		" ": "+",
		"%": "%25",
		"!": "%21",
		"#": "%23",
		"$": "%24",
		"&": "%26",
		"'": "%27",
		"(": "%28",
		")": "%29",
		"*": "%2A",
		"+": "%2B",
		",": "%2C",
		"/": "%2F",
		":": "%3A",
		";": "%3B",
		"=": "%3D",
		"?": "%3F",
		"@": "%40",
		"[": "%5B",
		"]": "%5D",
	}
	for in, want := range cases {
		assert.Equal(t, want, Escape(in), "escape of %q", in)
	}
	// everything outside the table passes through, including characters
	// full RFC 3986 encoding would touch
	assert.Equal(t, "abc-XYZ_0.9~{}<>|\"", Escape("abc-XYZ_0.9~{}<>|\""))
}

// unescape reverses the gateway's substitution table for the round-trip check.
func unescape(t *testing.T, s string) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '+':
			b.WriteByte(' ')
		case s[i] == '%':
			require.Less(t, i+2, len(s))
			decoded, err := hex.DecodeString(s[i+1 : i+3])
			require.NoError(t, err)
			b.WriteByte(decoded[0])
			i += 2
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func TestEscape_RoundTrip(t *testing.T) {
	original := "a b%c!d#e$f&g'h(i)j*k+l,m/n:o;p=q?r@s[t]u"
	assert.Equal(t, original, unescape(t, Escape(original)))
}

func TestParameterSet_SignatureExcluded(t *testing.T) {
	set := entity.NewParameterSet()
	require.NoError(t, set.Add("merchant-id", "10000100"))
	require.NoError(t, set.Add("signature", "deadbeef"))

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, "merchant-id=10000100", NewSigner("").Canonicalize(set))
}

func TestParameterSet_DuplicateRejected(t *testing.T) {
	set := entity.NewParameterSet()
	require.NoError(t, set.Add("version", "v1"))
	assert.Error(t, set.Add("version", "v2"))

	// names are case-sensitive, so differing case is not a duplicate
	assert.NoError(t, set.Add("Version", "v2"))
}

func TestCanonicalize_DoesNotModifySet(t *testing.T) {
	set := headerSet(t)
	before := set.Pairs()
	_ = NewSigner("secret").Canonicalize(set)
	assert.Equal(t, before, set.Pairs())
	_, found := set.Get("passphrase")
	assert.False(t, found)
}

func TestDebugJSON(t *testing.T) {
	set := entity.NewParameterSet()
	require.NoError(t, set.Add("k1", "v1"))
	require.NoError(t, set.Add("k2", "v2"))
	assert.Equal(t, `{ "k1" : "v1", "k2" : "v2" }`, DebugJSON(set))
	assert.Equal(t, "{  }", DebugJSON(entity.NewParameterSet()))
}

func TestVerify_ReceivedOrder(t *testing.T) {
	signer := NewSigner("secret")

	set := entity.NewParameterSet()
	require.NoError(t, set.Add("m_payment_id", "001"))
	require.NoError(t, set.Add("amount_gross", "200.00"))

	// the gateway signs notification fields in the order sent, not sorted
	signature := md5Hex("m_payment_id=001&amount_gross=200.00&passphrase=secret")
	assert.True(t, signer.Verify(set, signature))
	assert.False(t, signer.Verify(set, md5Hex("amount_gross=200.00&m_payment_id=001&passphrase=secret")))
	assert.False(t, signer.Verify(set, "not-a-signature"))
}
