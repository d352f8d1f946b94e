package account

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyInfo is the public part of a wallet key.
type KeyInfo struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// CreateKey imports hexKey, or generates a fresh key when hexKey is empty.
func CreateKey(hexKey string) (*ecdsa.PrivateKey, KeyInfo, error) {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	if hexKey != "" {
		key, err = HexToKey(hexKey)
	} else {
		key, err = crypto.GenerateKey()
	}
	if err != nil {
		return nil, KeyInfo{}, err
	}

	return key, KeyInfo{
		Address:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PublicKey: hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)),
	}, nil
}
