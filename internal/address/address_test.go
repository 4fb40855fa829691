package address

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bech32Addr encodes raw address bytes under a hrp the way the chain does.
func bech32Addr(t *testing.T, hrp string, payload []byte) string {
	t.Helper()
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	encoded, err := bech32.Encode(hrp, data)
	require.NoError(t, err)
	return encoded
}

func strPtr(s string) *string { return &s }

func TestIsLegacyAddress(t *testing.T) {
	codec := NewCardanoCodec(1)

	byronPayload := append([]byte{0x82, 0xd8, 0x18, 0x58, 0x21}, make([]byte, 33)...)
	assert.True(t, codec.IsLegacyAddress(base58.Encode(byronPayload)))

	assert.False(t, codec.IsLegacyAddress(""))
	assert.False(t, codec.IsLegacyAddress("addr1qxy"))
	assert.False(t, codec.IsLegacyAddress(base58.Encode([]byte{0x01, 0x02})))
}

func TestCanonicalizeAddress(t *testing.T) {
	codec := NewCardanoCodec(1)
	canon := NewCanonicalizer(codec)

	byronPayload := append([]byte{0x82, 0xd8, 0x18, 0x58, 0x21}, make([]byte, 33)...)
	legacy := base58.Encode(byronPayload)

	shelleyPayload := append([]byte{0x01}, make([]byte, 56)...)

	t.Run("absent input passes through", func(t *testing.T) {
		assert.Nil(t, canon.CanonicalizeAddress(nil))
	})

	t.Run("legacy address is unchanged", func(t *testing.T) {
		got := canon.CanonicalizeAddress(&legacy)
		require.NotNil(t, got)
		assert.Equal(t, legacy, *got)
	})

	t.Run("bech32 wrapping a legacy payload is re-encoded as base58", func(t *testing.T) {
		wrapped := bech32Addr(t, "addr", byronPayload)
		require.True(t, strings.HasPrefix(wrapped, "addr1"))

		got := canon.CanonicalizeAddress(&wrapped)
		require.NotNil(t, got)
		assert.Equal(t, legacy, *got)
	})

	t.Run("bech32 with a shelley payload is unchanged", func(t *testing.T) {
		addr := bech32Addr(t, "addr", shelleyPayload)
		got := canon.CanonicalizeAddress(&addr)
		require.NotNil(t, got)
		assert.Equal(t, addr, *got)
	})

	t.Run("test-network prefix is recognized", func(t *testing.T) {
		wrapped := bech32Addr(t, "addr_test", byronPayload)
		got := canon.CanonicalizeAddress(&wrapped)
		require.NotNil(t, got)
		assert.Equal(t, legacy, *got)
	})

	t.Run("unknown formats pass through verbatim", func(t *testing.T) {
		weird := "stake1u9ylzsgxaa6xctf4juup682ar3juj85n8tx3hthnljg47zctvm3rc"
		got := canon.CanonicalizeAddress(&weird)
		require.NotNil(t, got)
		assert.Equal(t, weird, *got)
	})
}

func TestRewardAddress(t *testing.T) {
	keyHash := strings.Repeat("ab", 28)

	mainnet := NewCardanoCodec(1)
	payload, err := mainnet.RewardAddress(keyHash)
	require.NoError(t, err)
	assert.Equal(t, byte(0xe1), payload[0])
	assert.Equal(t, 29, len(payload))

	testnet := NewCardanoCodec(0)
	payload, err = testnet.RewardAddress(keyHash)
	require.NoError(t, err)
	assert.Equal(t, byte(0xe0), payload[0])

	_, err = mainnet.RewardAddress("not hex")
	require.Error(t, err)
}

func TestRewardAddressHex(t *testing.T) {
	canon := NewCanonicalizer(NewCardanoCodec(1))

	got, err := canon.RewardAddressHex(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	keyHash := strings.Repeat("cd", 28)
	got, err = canon.RewardAddressHex(strPtr(keyHash))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "e1"+keyHash, *got)

	raw, err := hex.DecodeString(*got)
	require.NoError(t, err)
	assert.Equal(t, 29, len(raw))
}
