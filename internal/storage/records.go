// internal/storage/records.go
package storage

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/utils"
)

// Coercion from driver records to the raw row shapes. Numeric properties
// stay interface{} where downstream normalization handles the encoding.

func recordValue(record *neo4j.Record, key string) any {
	value, _ := record.Get(key)
	return value
}

func recordInt64(record *neo4j.Record, key string) int64 {
	return utils.ToInt64(recordValue(record, key))
}

func recordString(record *neo4j.Record, key string) string {
	s, _ := recordValue(record, key).(string)
	return s
}

func recordOptInt64(record *neo4j.Record, key string) *int64 {
	value := recordValue(record, key)
	if value == nil {
		return nil
	}
	n := utils.ToInt64(value)
	return &n
}

func mapString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func mapOptString(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func mapOptFloat64(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	default:
		return nil
	}
}

func mapStringSlice(m map[string]any, key string) []string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func subMap(value any) (map[string]any, bool) {
	m, ok := value.(map[string]any)
	return m, ok
}

func subList(record *neo4j.Record, key string) []map[string]any {
	list, ok := recordValue(record, key).([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := subMap(item); ok {
			out = append(out, m)
		}
	}
	return out
}

func parseTxRecord(record *neo4j.Record) (model.RawTxRecord, error) {
	txMap, ok := subMap(recordValue(record, "tx"))
	if !ok {
		return model.RawTxRecord{}, fmt.Errorf("history record is missing its transaction projection")
	}
	blockMap, ok := subMap(recordValue(record, "block"))
	if !ok {
		return model.RawTxRecord{}, fmt.Errorf("history record is missing its block projection")
	}

	isValid, ok := txMap["is_valid"].(bool)
	if !ok {
		isValid = true
	}

	return model.RawTxRecord{
		Hash:             mapString(txMap, "hash"),
		Fee:              txMap["fee"],
		Metadata:         mapOptString(txMap, "metadata"),
		IsValid:          isValid,
		TxIndex:          utils.ToInt64(txMap["tx_index"]),
		Block:            parseBlock(blockMap),
		Outputs:          parseOutputs(subList(record, "outputs")),
		Inputs:           parseInputs(subList(record, "inputs")),
		CollateralInputs: parseInputs(subList(record, "collateral_inputs")),
		Withdrawals:      parseWithdrawals(subList(record, "withdrawals")),
		Certificates:     parseCertificates(subList(record, "certificates")),
		Scripts:          parseScripts(subList(record, "scripts")),
	}, nil
}

func parseBlock(m map[string]any) model.RawBlock {
	return model.RawBlock{
		Number:       utils.ToInt64(m["number"]),
		Hash:         mapString(m, "hash"),
		PreviousHash: mapString(m, "previous_hash"),
		Era:          mapString(m, "era"),
		Epoch:        utils.ToInt64(m["epoch"]),
		EpochSlot:    utils.ToInt64(m["epoch_slot"]),
		AbsoluteSlot: uint64(utils.ToInt64(m["slot"])),
		TxCount:      utils.ToInt64(m["tx_count"]),
	}
}

func parseOutputs(list []map[string]any) []model.RawOutput {
	outputs := make([]model.RawOutput, 0, len(list))
	for _, m := range list {
		outputs = append(outputs, parseOutput(m))
	}
	return outputs
}

func parseOutput(m map[string]any) model.RawOutput {
	return model.RawOutput{
		Address:  mapString(m, "address"),
		Amount:   m["amount"],
		DataHash: mapOptString(m, "datum_hash"),
		Assets:   parseAssets(m["assets"]),
	}
}

func parseAssets(value any) []model.RawAsset {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	assets := make([]model.RawAsset, 0, len(list))
	for _, item := range list {
		m, ok := subMap(item)
		if !ok {
			continue
		}
		assets = append(assets, model.RawAsset{
			Policy:   mapString(m, "policy"),
			Name:     mapString(m, "name"),
			Quantity: m["quantity"],
		})
	}
	return assets
}

func parseInputs(list []map[string]any) []model.RawInput {
	inputs := make([]model.RawInput, 0, len(list))
	for _, m := range list {
		input := model.RawInput{
			SourceTxHash:      mapString(m, "source_tx_hash"),
			SourceOutputIndex: utils.ToInt64(m["source_output_index"]),
		}
		// the source projection is null when the referenced output is
		// unavailable; that is a representable state, not an error
		if src, ok := subMap(m["source"]); ok {
			out := parseOutput(src)
			input.Source = &out
		}
		inputs = append(inputs, input)
	}
	return inputs
}

func parseWithdrawals(list []map[string]any) []model.RawWithdrawal {
	withdrawals := make([]model.RawWithdrawal, 0, len(list))
	for _, m := range list {
		withdrawals = append(withdrawals, model.RawWithdrawal{
			Address: mapString(m, "address"),
			Amount:  m["amount"],
		})
	}
	return withdrawals
}

func parseCertificates(list []map[string]any) []model.RawCertificate {
	certs := make([]model.RawCertificate, 0, len(list))
	for _, m := range list {
		certs = append(certs, model.RawCertificate{
			Type:          mapString(m, "type"),
			CertIndex:     utils.ToInt64(m["cert_index"]),
			StakeKeyHash:  mapOptString(m, "stake_key_hash"),
			PoolKeyHash:   mapOptString(m, "pool_key_hash"),
			Operator:      mapOptString(m, "operator"),
			VRFKeyHash:    mapOptString(m, "vrf_key_hash"),
			Pledge:        m["pledge"],
			Cost:          m["cost"],
			Margin:        mapOptFloat64(m, "margin"),
			RewardAccount: mapOptString(m, "reward_account"),
			PoolOwners:    mapStringSlice(m, "pool_owners"),
			Relays:        mapOptString(m, "relays"),
			MetadataURL:   mapOptString(m, "metadata_url"),
			MetadataHash:  mapOptString(m, "metadata_hash"),
		})
	}
	return certs
}

func parseScripts(list []map[string]any) []model.RawScript {
	scripts := make([]model.RawScript, 0, len(list))
	for _, m := range list {
		scripts = append(scripts, model.RawScript{
			Hash:      mapString(m, "hash"),
			ScriptHex: mapString(m, "script_hex"),
		})
	}
	return scripts
}
