package account

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/status-im/walletconnect-core/transactions"
)

// ErrInvalidTxSender is returned when a transaction asks to be sent from an account other than the signer's.
var ErrInvalidTxSender = errors.New("transaction can only be signed by its sender")

// KeySigner signs on behalf of a single private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

// NewKeySigner returns a signer for key. chainID is used for transactions that carry no chain id.
func NewKeySigner(key *ecdsa.PrivateKey, chainID uint64) *KeySigner {
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(chainID),
	}
}

func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignMessage signs an EIP-191 personal message and returns the [R || S || V] signature
// with V in {27, 28}, hex encoded.
func (s *KeySigner) SignMessage(ctx context.Context, message []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.signHash(accounts.TextHash(message))
}

// SignTypedData signs an EIP-712 document.
func (s *KeySigner) SignTypedData(ctx context.Context, domain apitypes.TypedDataDomain, types apitypes.Types, primaryType string, message apitypes.TypedDataMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, _, err := apitypes.TypedDataAndHash(apitypes.TypedData{
		Types:       types,
		PrimaryType: primaryType,
		Domain:      domain,
		Message:     message,
	})
	if err != nil {
		return "", err
	}
	return s.signHash(hash)
}

// SignTransaction builds, signs and RLP/typed-envelope encodes the transaction.
func (s *KeySigner) SignTransaction(ctx context.Context, args *transactions.SendTxArgs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// make sure that only account which created the tx can complete it
	if args.From != (common.Address{}) && args.From != s.address {
		return "", ErrInvalidTxSender
	}

	tx, err := transactions.BuildTransaction(*args)
	if err != nil {
		return "", err
	}

	chainID := s.chainID
	if args.ChainID != nil {
		chainID = args.ChainID.ToInt()
	}

	signedTx, err := gethtypes.SignTx(tx, gethtypes.NewLondonSigner(chainID), s.key)
	if err != nil {
		return "", err
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(raw), nil
}

func (s *KeySigner) signHash(hash []byte) (string, error) {
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}
