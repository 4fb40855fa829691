package model

import (
	"encoding/json"
	"time"
)

// CertificateKind identifies a canonical certificate variant.
type CertificateKind string

const (
	KindStakeRegistration   CertificateKind = "StakeRegistration"
	KindStakeDeregistration CertificateKind = "StakeDeregistration"
	KindStakeDelegation     CertificateKind = "StakeDelegation"
	KindPoolRegistration    CertificateKind = "PoolRegistration"
	KindPoolRetirement      CertificateKind = "PoolRetirement"
)

// Raw certificate type tags as stored on graph nodes.
const (
	CertTypeStakeRegistration    = "stake_registration"
	CertTypeStakeDeregistration  = "stake_deregistration"
	CertTypeStakeDelegation      = "stake_delegation"
	CertTypePoolRegistration     = "pool_registration"
	CertTypePoolRetirement       = "pool_retirement"
	CertTypeGenesisKeyDelegation = "genesis_key_delegation"
)

// TxStateSuccessful is the only transaction state this read model reports;
// the graph schema keeps no failure flag.
const TxStateSuccessful = "Successful"

// Asset is one entry of a value's multi-asset list.
type Asset struct {
	AssetID string `json:"assetId"`
	Policy  string `json:"policy"`
	Name    string `json:"name"`
	Amount  string `json:"amount"`
}

// TxInput is a canonical transaction input. Address and Amount come from
// the resolved source output and stay null when that output is unavailable.
// ID is the raw concatenation of the source tx hash and output index kept
// for wire compatibility; TxHash and Index carry the same pair split apart.
type TxInput struct {
	ID      string  `json:"id"`
	Index   int64   `json:"index"`
	TxHash  string  `json:"txHash"`
	Address *string `json:"address"`
	Amount  *string `json:"amount"`
	Assets  []Asset `json:"assets"`
}

// TxOutput is a canonical transaction output.
type TxOutput struct {
	Address  string  `json:"address"`
	Amount   string  `json:"amount"`
	DataHash *string `json:"dataHash"`
	Assets   []Asset `json:"assets"`
}

// Withdrawal is a canonical reward-account withdrawal. Withdrawals carry no
// assets or datum by ledger design, so Assets is always empty and DataHash
// always null.
type Withdrawal struct {
	Address  string  `json:"address"`
	Amount   string  `json:"amount"`
	DataHash *string `json:"dataHash"`
	Assets   []Asset `json:"assets"`
}

// PoolRelay is one relay of a pool registration, parsed from the embedded
// serialized form.
type PoolRelay struct {
	IPv4    *string `json:"ipv4,omitempty"`
	IPv6    *string `json:"ipv6,omitempty"`
	Host    *string `json:"host,omitempty"`
	Port    *string `json:"port,omitempty"`
	DNSName *string `json:"dnsName,omitempty"`
}

// PoolMetadata is the off-chain metadata reference of a pool registration.
type PoolMetadata struct {
	URL  *string `json:"url,omitempty"`
	Hash *string `json:"hash,omitempty"`
}

// Certificate is the canonical certificate shape. Kind is always set; each
// variant populates only its relevant fields.
type Certificate struct {
	Kind      CertificateKind `json:"kind"`
	CertIndex int64           `json:"certIndex"`

	// stake registration / deregistration / delegation
	RewardAddress *string `json:"rewardAddress,omitempty"`

	// stake delegation / pool retirement
	PoolKeyHash *string `json:"poolKeyHash,omitempty"`

	// pool registration
	Operator      *string       `json:"operator,omitempty"`
	VRFKeyHash    *string       `json:"vrfKeyHash,omitempty"`
	Pledge        *string       `json:"pledge,omitempty"`
	Cost          *string       `json:"cost,omitempty"`
	Margin        *float64      `json:"margin,omitempty"`
	RewardAccount *string       `json:"rewardAccount,omitempty"`
	PoolOwners    []string      `json:"poolOwners,omitempty"`
	Relays        []PoolRelay   `json:"relays,omitempty"`
	PoolMetadata  *PoolMetadata `json:"poolMetadata,omitempty"`

	// pool retirement; taken from the owning block
	Epoch *int64 `json:"epoch,omitempty"`
}

// Transaction is the flat, era-agnostic representation of a ledger
// transaction exposed to API consumers.
type Transaction struct {
	Hash             string          `json:"hash"`
	Fee              string          `json:"fee"`
	Metadata         json.RawMessage `json:"metadata"`
	ValidContract    bool            `json:"validContract"`
	ScriptSize       int64           `json:"scriptSize"`
	Type             string          `json:"type"`
	TxState          string          `json:"txState"`
	TxOrdinal        int64           `json:"txOrdinal"`
	BlockNum         int64           `json:"blockNum"`
	BlockHash        string          `json:"blockHash"`
	Time             time.Time       `json:"time"`
	Epoch            int64           `json:"epoch"`
	Slot             int64           `json:"slot"`
	Inputs           []TxInput       `json:"inputs"`
	CollateralInputs []TxInput       `json:"collateralInputs"`
	Outputs          []TxOutput      `json:"outputs"`
	Withdrawals      []Withdrawal    `json:"withdrawals"`
	Certificates     []Certificate   `json:"certificates"`
}

// Block is the canonical best-block projection.
type Block struct {
	Number    int64  `json:"number"`
	Hash      string `json:"hash"`
	Era       string `json:"era"`
	Epoch     int64  `json:"epoch"`
	EpochSlot int64  `json:"slot"`
	Slot      int64  `json:"globalSlot"`
}

// CursorBounds are the absolute transaction-ordinal boundaries of one page
// window. Produced once per pagination request and immutable afterwards.
type CursorBounds struct {
	UntilTx      int64 `json:"untilTx"`
	UntilBlock   int64 `json:"untilBlock"`
	AfterTx      int64 `json:"afterTx"`
	AfterBlock   int64 `json:"afterBlock"`
	AfterTxIndex int64 `json:"afterTxIndex"`
}
