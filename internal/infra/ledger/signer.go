package ledger

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Signer is the capability to sign transactions for one address. Key
// material stays behind this interface; orchestration only ever sees
// addresses and signed bytes.
type Signer interface {
	Address() string
	Sign(txn types.Transaction) (txID string, raw []byte, err error)
}

type keySigner struct {
	address string
	key     ed25519.PrivateKey
}

// NewSigner builds a signer from a credential string: either a 25-word
// mnemonic or a base64-encoded private key.
func NewSigner(secret string) (Signer, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return nil, err
	}
	account, err := crypto.AccountFromPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return &keySigner{address: account.Address.String(), key: key}, nil
}

func (s *keySigner) Address() string {
	return s.address
}

func (s *keySigner) Sign(txn types.Transaction) (string, []byte, error) {
	return crypto.SignTransaction(s.key, txn)
}

func decodeSecret(secret string) (ed25519.PrivateKey, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("signing credential is empty")
	}
	if strings.Contains(secret, " ") {
		return mnemonic.ToPrivateKey(secret)
	}
	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, errors.New("signing credential is neither a mnemonic nor base64")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.New("decoded signing key has wrong length")
	}
	return ed25519.PrivateKey(raw), nil
}
