package ed25519

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err, "bad hex literal")
	return b
}

func TestRFC8032Vector1(t *testing.T) {
	seed := mustHex(t, "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	wantSig := mustHex(t,
		"e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b")

	sk, err := NewPrivateKeyFromSeed(seed)
	require.NoError(t, err)

	sig, err := Sign(sk, nil)
	require.NoError(t, err)
	assert.Equal(t, wantSig, sig)

	pub := sk.Public().(*PublicKey)
	assert.True(t, Verify(pub, nil, sig), "self-verification failed")
}

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := GenerateKey(nil)
	require.NoError(t, err)
	msg := []byte("arbitrary message content")
	sig, err := Sign(sk, msg)
	require.NoError(t, err)
	pub := sk.Public().(*PublicKey)
	assert.True(t, Verify(pub, msg, sig), "verify rejected a valid signature")
}

func TestTamperDetection(t *testing.T) {
	sk, err := GenerateKey(nil)
	require.NoError(t, err)
	msg := []byte("tamper me")
	sig, err := Sign(sk, msg)
	require.NoError(t, err)
	pub := sk.Public().(*PublicKey)

	tamperedSig := append([]byte(nil), sig...)
	tamperedSig[0] ^= 0x01
	assert.False(t, Verify(pub, msg, tamperedSig), "verify accepted a tampered signature")

	tamperedMsg := append([]byte(nil), msg...)
	tamperedMsg[0] ^= 0x01
	assert.False(t, Verify(pub, tamperedMsg, sig), "verify accepted a tampered message")

	pubBytes := pub.Encode(nil)
	pubBytes[0] ^= 0x01
	tamperedPub, err := DecodePublicKey(pubBytes)
	if err == nil {
		assert.False(t, Verify(tamperedPub, msg, sig), "verify accepted a tampered public key")
	}
}

func TestNormalizePrivateKeyVariants(t *testing.T) {
	seed := mustHex(t, "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")

	fromBytes, err := NormalizePrivateKey(seed)
	require.NoError(t, err)
	fromHexStr, err := NormalizePrivateKey(hex.EncodeToString(seed))
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromHexStr, "normalized forms disagree")
}

func TestValidateSignatureEncoding(t *testing.T) {
	assert.Error(t, ValidateSignatureEncoding(make([]byte, 10)), "expected error for short signature")
	good := make([]byte, SignatureSize)
	assert.NoError(t, ValidateSignatureEncoding(good), "all-zero signature should be structurally valid")
}
