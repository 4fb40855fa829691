// internal/era/era.go
package era

import (
	"fmt"
	"strings"
	"time"
)

// Byron is the era tag of the fixed-slot-duration era. Every other tag
// (shelley, allegra, mary, alonzo, babbage, ...) uses the one-second-slot
// formula; only one era transition boundary exists in the supported
// network set, so dispatch is a two-way branch rather than a per-era table.
const Byron = "byron"

// Constants are the per-network genesis anchors for slot-to-time
// conversion and network-dependent address encoding. One resolved set is
// active for the life of the process, injected at construction time.
type Constants struct {
	// GenesisTimestamp is the unix time of byron slot 0.
	GenesisTimestamp int64
	// ShelleyTransitionTimestamp is the unix time of the first shelley slot.
	ShelleyTransitionTimestamp int64
	// ShelleyInitialSlot is the absolute slot number of the first shelley slot.
	ShelleyInitialSlot uint64
	// ByronSlotSeconds is the fixed byron slot duration.
	ByronSlotSeconds int64
	// NetworkID is the address-header network id (mainnet 1, testnet 0).
	NetworkID byte
}

// MainnetConstants anchor the public mainnet chain.
var MainnetConstants = Constants{
	GenesisTimestamp:           1506203091,
	ShelleyTransitionTimestamp: 1596059091,
	ShelleyInitialSlot:         4492800,
	ByronSlotSeconds:           20,
	NetworkID:                  1,
}

// TestnetConstants anchor the public testnet chain.
var TestnetConstants = Constants{
	GenesisTimestamp:           1563999616,
	ShelleyTransitionTimestamp: 1595967616,
	ShelleyInitialSlot:         1598400,
	ByronSlotSeconds:           20,
	NetworkID:                  0,
}

// ForNetwork resolves the constant table for a configured network name.
func ForNetwork(name string) (Constants, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return MainnetConstants, nil
	case "testnet":
		return TestnetConstants, nil
	default:
		return Constants{}, fmt.Errorf("unknown network: %s", name)
	}
}

// BlockTime maps a block's era tag and absolute slot to wall-clock time.
// The byron tag, however cased by the source system, selects the
// fixed-duration formula; every other tag maps one slot to one second from
// the shelley transition. Matching is case-insensitive like BlockType so a
// block can never be typed byron but timestamped with the shelley formula.
// Pure arithmetic: callers own the validity of the slot value.
func (c Constants) BlockTime(eraTag string, absoluteSlot uint64) time.Time {
	if strings.EqualFold(eraTag, Byron) {
		return time.Unix(c.GenesisTimestamp+int64(absoluteSlot)*c.ByronSlotSeconds, 0).UTC()
	}
	return time.Unix(c.ShelleyTransitionTimestamp+int64(absoluteSlot)-int64(c.ShelleyInitialSlot), 0).UTC()
}

// BlockType derives the transaction type tag from the block era,
// case-insensitively.
func (c Constants) BlockType(eraTag string) string {
	if strings.EqualFold(eraTag, Byron) {
		return "byron"
	}
	return "shelley"
}
