package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// Wallet is an ed25519 keypair in Solana's representation: the secret key is
// the 64-byte seed-plus-public concatenation, base58 encoded at rest.
type Wallet struct {
	priv ed25519.PrivateKey
}

// WalletFromBase58 decodes a base58 secret key.
func WalletFromBase58(encoded string) (*Wallet, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode wallet key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return &Wallet{priv: ed25519.PrivateKey(raw)}, nil
}

// GenerateWallet creates a fresh keypair. Dev tooling only.
func GenerateWallet() (*Wallet, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate wallet: %w", err)
	}
	return &Wallet{priv: priv}, nil
}

// PublicKey returns the wallet's 32-byte public key.
func (w *Wallet) PublicKey() []byte {
	return []byte(w.priv.Public().(ed25519.PublicKey))
}

// PublicKeyBase58 returns the wallet address.
func (w *Wallet) PublicKeyBase58() string {
	return base58.Encode(w.PublicKey())
}

// SecretKeyBase58 returns the encoded secret key.
func (w *Wallet) SecretKeyBase58() string {
	return base58.Encode(w.priv)
}

// Sign signs a serialized transaction message.
func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.priv, message)
}
