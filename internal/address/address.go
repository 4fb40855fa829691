// internal/address/address.go
package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Codec is the address/key serialization capability. It hides the on-chain
// byte formats behind four operations so the canonicalizer and certificate
// handling stay independently testable.
type Codec interface {
	// IsLegacyAddress reports whether raw validates as a byron-era base58
	// address.
	IsLegacyAddress(raw string) bool
	// DecodeBech32 decodes a shelley-era bech32 address to its raw bytes.
	DecodeBech32(raw string) ([]byte, error)
	// LegacyFromBytes re-encodes raw address bytes in the byron base58 form.
	LegacyFromBytes(payload []byte) string
	// RewardAddress builds the on-chain reward address bytes for a stake
	// credential key hash on the configured network.
	RewardAddress(stakeKeyHashHex string) ([]byte, error)
}

// Byron address payloads are a CBOR two-element array; the leading byte of
// both the base58-decoded form and the bech32-decoded bootstrap form is the
// array header, whose high nibble is 8.
const legacyMarkerNibble = 0x8

// Reward account header: address type 14 in the high nibble, network id in
// the low nibble.
const rewardAddressHeader = 0xE0

// CardanoCodec implements Codec for a single configured network.
type CardanoCodec struct {
	networkID byte
}

// NewCardanoCodec creates a codec bound to a network id (mainnet 1, testnet 0).
func NewCardanoCodec(networkID byte) *CardanoCodec {
	return &CardanoCodec{networkID: networkID}
}

// IsLegacyAddress implements Codec.
func (c *CardanoCodec) IsLegacyAddress(raw string) bool {
	if raw == "" {
		return false
	}
	payload := base58.Decode(raw)
	return len(payload) > 0 && payload[0]>>4 == legacyMarkerNibble
}

// DecodeBech32 implements Codec. Mainnet payment addresses exceed the
// BIP-173 length limit, hence the no-limit decode.
func (c *CardanoCodec) DecodeBech32(raw string) ([]byte, error) {
	_, data, err := bech32.DecodeNoLimit(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bech32 address: %w", err)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("failed to regroup bech32 payload: %w", err)
	}
	return payload, nil
}

// LegacyFromBytes implements Codec.
func (c *CardanoCodec) LegacyFromBytes(payload []byte) string {
	return base58.Encode(payload)
}

// RewardAddress implements Codec.
func (c *CardanoCodec) RewardAddress(stakeKeyHashHex string) ([]byte, error) {
	keyHash, err := hex.DecodeString(stakeKeyHashHex)
	if err != nil {
		return nil, fmt.Errorf("invalid stake key hash %q: %w", stakeKeyHashHex, err)
	}
	out := make([]byte, 0, len(keyHash)+1)
	out = append(out, rewardAddressHeader|c.networkID)
	return append(out, keyHash...), nil
}

// Canonicalizer reconciles the address encodings found in the graph store
// to the single textual form per address family expected by API consumers.
type Canonicalizer struct {
	codec Codec
}

// NewCanonicalizer creates a Canonicalizer over a codec.
func NewCanonicalizer(codec Codec) *Canonicalizer {
	return &Canonicalizer{codec: codec}
}

// CanonicalizeAddress maps a raw address to its canonical form:
//   - absent input passes through,
//   - a valid legacy base58 address is returned unchanged,
//   - a bech32 address whose decoded bytes carry the legacy marker nibble
//     is re-encoded in the base58 form (byron addresses exposed under a
//     shelley encoding),
//   - everything else is returned verbatim.
func (c *Canonicalizer) CanonicalizeAddress(raw *string) *string {
	if raw == nil {
		return nil
	}
	addr := *raw
	if c.codec.IsLegacyAddress(addr) {
		return raw
	}
	if strings.HasPrefix(addr, "addr1") || strings.HasPrefix(addr, "addr_test1") {
		payload, err := c.codec.DecodeBech32(addr)
		if err != nil || len(payload) == 0 {
			return raw
		}
		if payload[0]>>4 == legacyMarkerNibble {
			legacy := c.codec.LegacyFromBytes(payload)
			return &legacy
		}
	}
	return raw
}

// RewardAddressHex derives the hex-encoded reward address for a stake
// credential key hash. An absent key hash yields nil.
func (c *Canonicalizer) RewardAddressHex(stakeKeyHashHex *string) (*string, error) {
	if stakeKeyHashHex == nil {
		return nil, nil
	}
	payload, err := c.codec.RewardAddress(*stakeKeyHashHex)
	if err != nil {
		return nil, err
	}
	encoded := hex.EncodeToString(payload)
	return &encoded, nil
}
