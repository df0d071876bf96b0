package domain

import (
	"encoding/json"
	"fmt"
)

// MintAccountSize is the serialized size of an SPL mint account in bytes.
// Used for rent-exemption estimation during token creation staging.
const MintAccountSize = 82

// TokenCreationIntent is a client request to create a new SPL token.
type TokenCreationIntent struct {
	Name        string `json:"name"`                  // token name
	Symbol      string `json:"symbol"`                // ticker symbol
	Decimals    *int   `json:"decimals,omitempty"`    // nil defaults to 9; must be in [0,18]
	Supply      uint64 `json:"supply"`                // initial supply in base units
	Description string `json:"description,omitempty"` // optional metadata description
	Image       string `json:"image,omitempty"`       // optional metadata image URI
	Owner       string `json:"ownerPublicKey"`        // requesting wallet (base58)
}

// FollowUpStep is one step of the client-side completion protocol for a
// staged mint. Steps are ordered and must be executed in sequence.
type FollowUpStep string

const (
	StepCreateMint              FollowUpStep = "create-mint"
	StepCreateAssociatedAccount FollowUpStep = "create-associated-account"
	StepMintInitialSupply       FollowUpStep = "mint-initial-supply"
	StepUploadMetadata          FollowUpStep = "upload-metadata"
)

// MintFollowUpSteps returns the ordered completion protocol for a staged mint.
func MintFollowUpSteps() []FollowUpStep {
	return []FollowUpStep{
		StepCreateMint,
		StepCreateAssociatedAccount,
		StepMintInitialSupply,
		StepUploadMetadata,
	}
}

// TokenDetails echoes the validated token parameters back to the caller.
type TokenDetails struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	Supply      uint64 `json:"supply"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// SecretKey is raw key material. It marshals as a JSON array of byte values,
// the shape wallet tooling feeds to Keypair.fromSecretKey, not base64.
type SecretKey []byte

func (k SecretKey) MarshalJSON() ([]byte, error) {
	vals := make([]uint16, len(k))
	for i, b := range k {
		vals[i] = uint16(b)
	}
	return json.Marshal(vals)
}

func (k *SecretKey) UnmarshalJSON(data []byte) error {
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	out := make([]byte, len(vals))
	for i, v := range vals {
		if v < 0 || v > 255 {
			return fmt.Errorf("secret key byte out of range: %d", v)
		}
		out[i] = byte(v)
	}
	*k = out
	return nil
}

// StagedMint describes a prepared token creation. The secret key is returned
// to the caller exactly once for client-side signing; the engine retains no
// copy (non-custodial contract).
type StagedMint struct {
	MintAddress      string         `json:"mintAddress"`      // freshly generated mint public key (base58)
	MintSecretKey    SecretKey      `json:"mintSecretKey"`    // raw 64-byte ed25519 secret key
	MintSecretKeyB58 string         `json:"mintSecretKeyB58"` // same material, base58
	LamportsRequired uint64         `json:"lamportsRequired"` // rent exemption for the mint account
	TokenDetails     TokenDetails   `json:"tokenDetails"`
	Steps            []FollowUpStep `json:"steps"` // ordered client-side follow-up protocol
}
