package account

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrKeyNotFound is returned when no keystore file matches the requested address.
var ErrKeyNotFound = errors.New("no key for given address or file")

// LoadKeyFile decrypts a single keystore JSON file.
func LoadKeyFile(path, password string) (*ecdsa.PrivateKey, error) {
	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(keyJSON, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key %s: %w", path, err)
	}
	return key.PrivateKey, nil
}

// LoadKeyFromDir scans keydir for the keystore file of address and decrypts it.
// Keystore file names end with the lower-case hex address, as written by go-ethereum.
func LoadKeyFromDir(keydir string, address common.Address, password string) (*ecdsa.PrivateKey, error) {
	entries, err := os.ReadDir(keydir)
	if err != nil {
		return nil, err
	}
	suffix := strings.ToLower(strings.TrimPrefix(address.Hex(), "0x"))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			continue
		}
		return LoadKeyFile(filepath.Join(keydir, entry.Name()), password)
	}
	return nil, ErrKeyNotFound
}

// StoreKey encrypts key with password into keydir using light scrypt parameters
// and returns the file path.
func StoreKey(keydir string, key *ecdsa.PrivateKey, password string) (string, error) {
	if err := os.MkdirAll(keydir, 0700); err != nil {
		return "", err
	}
	ks := keystore.NewKeyStore(keydir, keystore.LightScryptN, keystore.LightScryptP)
	acc, err := ks.ImportECDSA(key, password)
	if err != nil {
		return "", err
	}
	return acc.URL.Path, nil
}

// HexToKey parses a hex encoded private key, with or without 0x prefix.
func HexToKey(hexKey string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
}
