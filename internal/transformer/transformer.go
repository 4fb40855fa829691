// internal/transformer/transformer.go
package transformer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/address"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/era"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/utils"
)

// Transformer assembles raw graph records into canonical transactions.
type Transformer struct {
	constants era.Constants
	canon     *address.Canonicalizer
}

// New creates a Transformer bound to a network constant table and an
// address canonicalizer.
func New(constants era.Constants, canon *address.Canonicalizer) *Transformer {
	return &Transformer{
		constants: constants,
		canon:     canon,
	}
}

// ToTransactions converts a batch of raw records independently, preserving
// input order.
func (t *Transformer) ToTransactions(records []model.RawTxRecord) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		tx, err := t.ToTransaction(rec)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ToTransaction converts one raw graph record, joining its sub-collections
// into a single canonical transaction view.
func (t *Transformer) ToTransaction(rec model.RawTxRecord) (model.Transaction, error) {
	scriptSize, err := totalScriptSize(rec.Scripts)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s: %w", rec.Hash, err)
	}

	certs, err := t.transformCertificates(rec.Certificates, rec.Block)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s: %w", rec.Hash, err)
	}

	var metadata json.RawMessage
	if rec.Metadata != nil {
		metadata = json.RawMessage(*rec.Metadata)
	}

	return model.Transaction{
		Hash:             rec.Hash,
		Fee:              strconv.FormatInt(utils.ToInt64(rec.Fee), 10),
		Metadata:         metadata,
		ValidContract:    rec.IsValid,
		ScriptSize:       scriptSize,
		Type:             t.constants.BlockType(rec.Block.Era),
		TxState:          model.TxStateSuccessful,
		TxOrdinal:        rec.TxIndex,
		BlockNum:         rec.Block.Number,
		BlockHash:        rec.Block.Hash,
		Time:             t.constants.BlockTime(rec.Block.Era, rec.Block.AbsoluteSlot),
		Epoch:            rec.Block.Epoch,
		Slot:             rec.Block.EpochSlot,
		Inputs:           t.transformInputs(rec.Inputs),
		CollateralInputs: t.transformCollateralInputs(rec.CollateralInputs),
		Outputs:          t.transformOutputs(rec.Outputs),
		Withdrawals:      transformWithdrawals(rec.Withdrawals),
		Certificates:     certs,
	}, nil
}

// transformInputs joins each input with its resolved source output. An
// unresolved output leaves address and amount null; the record itself is
// kept. The id keeps the bare hash+index concatenation consumers dedupe on.
func (t *Transformer) transformInputs(inputs []model.RawInput) []model.TxInput {
	result := make([]model.TxInput, len(inputs))
	for i, in := range inputs {
		result[i] = t.transformInput(in)
	}
	return result
}

// transformCollateralInputs performs the same join as transformInputs but
// drops entries whose resolved output is entirely absent instead of
// keeping null placeholders.
func (t *Transformer) transformCollateralInputs(inputs []model.RawInput) []model.TxInput {
	result := make([]model.TxInput, 0, len(inputs))
	for _, in := range inputs {
		if in.Source == nil {
			continue
		}
		result = append(result, t.transformInput(in))
	}
	return result
}

func (t *Transformer) transformInput(in model.RawInput) model.TxInput {
	out := model.TxInput{
		ID:     in.SourceTxHash + strconv.FormatInt(in.SourceOutputIndex, 10),
		Index:  in.SourceOutputIndex,
		TxHash: in.SourceTxHash,
		Assets: []model.Asset{},
	}
	if in.Source != nil {
		out.Address = t.canon.CanonicalizeAddress(&in.Source.Address)
		out.Amount = utils.DisplayString(in.Source.Amount)
		out.Assets = transformAssets(in.Source.Assets)
	}
	return out
}

func (t *Transformer) transformOutputs(outputs []model.RawOutput) []model.TxOutput {
	result := make([]model.TxOutput, len(outputs))
	for i, out := range outputs {
		addr := out.Address
		if canonical := t.canon.CanonicalizeAddress(&addr); canonical != nil {
			addr = *canonical
		}
		result[i] = model.TxOutput{
			Address:  addr,
			Amount:   strconv.FormatInt(utils.ToInt64(out.Amount), 10),
			DataHash: out.DataHash,
			Assets:   transformAssets(out.Assets),
		}
	}
	return result
}

// transformWithdrawals maps withdrawals one-to-one. The asset list is
// forced empty and the data hash null: withdrawals carry neither by ledger
// design.
func transformWithdrawals(withdrawals []model.RawWithdrawal) []model.Withdrawal {
	result := make([]model.Withdrawal, len(withdrawals))
	for i, w := range withdrawals {
		result[i] = model.Withdrawal{
			Address:  w.Address,
			Amount:   strconv.FormatInt(utils.ToInt64(w.Amount), 10),
			DataHash: nil,
			Assets:   []model.Asset{},
		}
	}
	return result
}

func transformAssets(assets []model.RawAsset) []model.Asset {
	result := make([]model.Asset, len(assets))
	for i, a := range assets {
		result[i] = model.Asset{
			AssetID: utils.GetAsset(a.Policy, a.Name),
			Policy:  a.Policy,
			Name:    a.Name,
			Amount:  strconv.FormatInt(utils.ToInt64(a.Quantity), 10),
		}
	}
	return result
}

// totalScriptSize sums the hex-decoded byte lengths of all attached
// scripts. Absent or empty script hex contributes zero.
func totalScriptSize(scripts []model.RawScript) (int64, error) {
	var total int64
	for _, s := range scripts {
		if s.ScriptHex == "" {
			continue
		}
		if len(s.ScriptHex)%2 != 0 {
			return 0, fmt.Errorf("script %s: odd-length hex", s.Hash)
		}
		total += int64(len(s.ScriptHex) / 2)
	}
	return total, nil
}
