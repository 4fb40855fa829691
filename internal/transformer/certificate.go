// internal/transformer/certificate.go
package transformer

import (
	"encoding/json"
	"fmt"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/utils"
)

// transformCertificates expands each certificate by variant. Unsupported
// variants canonicalize to nil and are omitted, never dropped silently as
// a different shape.
func (t *Transformer) transformCertificates(certs []model.RawCertificate, block model.RawBlock) ([]model.Certificate, error) {
	result := make([]model.Certificate, 0, len(certs))
	for _, cert := range certs {
		canonical, err := t.ToCertificate(cert, block)
		if err != nil {
			return nil, fmt.Errorf("certificate %d (%s): %w", cert.CertIndex, cert.Type, err)
		}
		if canonical == nil {
			continue
		}
		result = append(result, *canonical)
	}
	return result, nil
}

// ToCertificate canonicalizes one certificate. The return is nil for any
// variant outside the modeled set (instantaneous rewards and friends),
// signaling the caller to omit it rather than guess a shape.
func (t *Transformer) ToCertificate(cert model.RawCertificate, block model.RawBlock) (*model.Certificate, error) {
	switch cert.Type {
	case model.CertTypeStakeRegistration:
		return t.stakeCertificate(model.KindStakeRegistration, cert)

	case model.CertTypeStakeDeregistration:
		return t.stakeCertificate(model.KindStakeDeregistration, cert)

	case model.CertTypeStakeDelegation, model.CertTypeGenesisKeyDelegation:
		// genesis key delegations surface under the stake-delegation kind
		canonical, err := t.stakeCertificate(model.KindStakeDelegation, cert)
		if err != nil {
			return nil, err
		}
		canonical.PoolKeyHash = cert.PoolKeyHash
		return canonical, nil

	case model.CertTypePoolRegistration:
		return poolRegistration(cert)

	case model.CertTypePoolRetirement:
		epoch := block.Epoch
		return &model.Certificate{
			Kind:        model.KindPoolRetirement,
			CertIndex:   cert.CertIndex,
			PoolKeyHash: cert.PoolKeyHash,
			Epoch:       &epoch,
		}, nil

	default:
		return nil, nil
	}
}

// stakeCertificate covers the variants whose payload is a stake credential:
// the reward address is derived from the credential key hash for the
// configured network; an absent key hash yields a null reward address.
func (t *Transformer) stakeCertificate(kind model.CertificateKind, cert model.RawCertificate) (*model.Certificate, error) {
	rewardAddress, err := t.canon.RewardAddressHex(cert.StakeKeyHash)
	if err != nil {
		return nil, err
	}
	return &model.Certificate{
		Kind:          kind,
		CertIndex:     cert.CertIndex,
		RewardAddress: rewardAddress,
	}, nil
}

func poolRegistration(cert model.RawCertificate) (*model.Certificate, error) {
	relays, err := parseRelays(cert.Relays)
	if err != nil {
		return nil, err
	}

	var metadata *model.PoolMetadata
	if cert.MetadataURL != nil || cert.MetadataHash != nil {
		metadata = &model.PoolMetadata{
			URL:  cert.MetadataURL,
			Hash: cert.MetadataHash,
		}
	}

	return &model.Certificate{
		Kind:          model.KindPoolRegistration,
		CertIndex:     cert.CertIndex,
		Operator:      cert.Operator,
		VRFKeyHash:    cert.VRFKeyHash,
		Pledge:        utils.DisplayString(cert.Pledge),
		Cost:          utils.DisplayString(cert.Cost),
		Margin:        cert.Margin,
		RewardAccount: cert.RewardAccount,
		PoolOwners:    cert.PoolOwners,
		Relays:        relays,
		PoolMetadata:  metadata,
	}, nil
}

// parseRelays decodes the relay list embedded as serialized JSON on the
// certificate node. Malformed payloads are a hard error so data-quality
// problems surface instead of silently dropping relays.
func parseRelays(raw *string) ([]model.PoolRelay, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var relays []model.PoolRelay
	if err := json.Unmarshal([]byte(*raw), &relays); err != nil {
		return nil, fmt.Errorf("malformed relay list: %w", err)
	}
	return relays, nil
}
