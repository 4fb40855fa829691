package model

// Raw graph-row shapes handed from the storage layer to the assembler.
// Numeric fields typed interface{} arrive in whichever encoding the driver
// produced (native integer, base-10 string, big.Int) and go through the
// numeric normalizer downstream.

// RawBlock is a block node as fetched from the graph store.
type RawBlock struct {
	Number       int64
	Hash         string
	PreviousHash string
	Era          string
	Epoch        int64
	EpochSlot    int64
	AbsoluteSlot uint64
	TxCount      int64
}

// RawAsset is one multi-asset entry attached to an output.
type RawAsset struct {
	Policy   string
	Name     string
	Quantity interface{}
}

// RawOutput is a transaction output row.
type RawOutput struct {
	Address  string
	Amount   interface{}
	DataHash *string
	Assets   []RawAsset
}

// RawInput is a transaction input row joined against its source output.
// Source is nil when the referenced output is unavailable; that is a valid
// state, not an error.
type RawInput struct {
	SourceTxHash      string
	SourceOutputIndex int64
	Source            *RawOutput
}

// RawWithdrawal is a reward-account withdrawal row.
type RawWithdrawal struct {
	Address string
	Amount  interface{}
}

// RawCertificate is a certificate node; fields beyond Type and CertIndex
// are populated per variant.
type RawCertificate struct {
	Type         string
	CertIndex    int64
	StakeKeyHash *string
	PoolKeyHash  *string

	Operator      *string
	VRFKeyHash    *string
	Pledge        interface{}
	Cost          interface{}
	Margin        *float64
	RewardAccount *string
	PoolOwners    []string
	Relays        *string // embedded serialized relay list
	MetadataURL   *string
	MetadataHash  *string
}

// RawScript is an attached script row; ScriptHex may be empty.
type RawScript struct {
	Hash      string
	ScriptHex string
}

// RawTxRecord bundles a transaction, its owning block and the
// independently fetched sub-collections of one graph query record.
type RawTxRecord struct {
	Hash     string
	Fee      interface{}
	Metadata *string
	IsValid  bool
	TxIndex  int64
	Block    RawBlock

	Outputs          []RawOutput
	Inputs           []RawInput
	CollateralInputs []RawInput
	Withdrawals      []RawWithdrawal
	Certificates     []RawCertificate
	Scripts          []RawScript
}
