package solana

import (
	"fmt"

	sdk "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Keypair is a freshly generated ed25519 identity. Secret material is handed
// to the caller and must not be retained by the engine.
type Keypair struct {
	PublicKey    string // base58
	SecretKey    []byte // raw 64-byte ed25519 secret key
	SecretKeyB58 string // same material, base58
}

// KeyGenerator supplies fresh cryptographic keypairs on demand.
type KeyGenerator interface {
	Generate() (*Keypair, error)
}

// RandomKeyGenerator generates keypairs from crypto/rand via solana-go.
type RandomKeyGenerator struct{}

// NewRandomKeyGenerator creates a new RandomKeyGenerator.
func NewRandomKeyGenerator() *RandomKeyGenerator {
	return &RandomKeyGenerator{}
}

// Generate returns a fresh random keypair.
func (g *RandomKeyGenerator) Generate() (*Keypair, error) {
	priv, err := sdk.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	secret := []byte(priv)
	return &Keypair{
		PublicKey:    priv.PublicKey().String(),
		SecretKey:    secret,
		SecretKeyB58: base58.Encode(secret),
	}, nil
}

// Compile-time interface check.
var _ KeyGenerator = (*RandomKeyGenerator)(nil)

// ValidAddress reports whether s is a parseable base58 Solana public key.
func ValidAddress(s string) bool {
	_, err := sdk.PublicKeyFromBase58(s)
	return err == nil
}

// AssociatedTokenAddress derives the deterministic per-owner, per-mint
// account that holds a wallet's balance of a specific token.
func AssociatedTokenAddress(owner, mint string) (string, error) {
	ownerPK, err := sdk.PublicKeyFromBase58(owner)
	if err != nil {
		return "", fmt.Errorf("parse owner: %w", err)
	}
	mintPK, err := sdk.PublicKeyFromBase58(mint)
	if err != nil {
		return "", fmt.Errorf("parse mint: %w", err)
	}

	ata, _, err := sdk.FindAssociatedTokenAddress(ownerPK, mintPK)
	if err != nil {
		return "", fmt.Errorf("derive associated token address: %w", err)
	}
	return ata.String(), nil
}
