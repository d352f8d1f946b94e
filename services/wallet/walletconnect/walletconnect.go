package walletconnect

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/status-im/walletconnect-core/services/wallet/walletevent"
	"github.com/status-im/walletconnect-core/transactions"
)

const (
	EventSessionConnected    = walletevent.EventType("walletconnect-session-connected")
	EventSessionDisconnected = walletevent.EventType("walletconnect-session-disconnected")
	EventSessionsCleared     = walletevent.EventType("walletconnect-sessions-cleared")
	EventRequestSigned       = walletevent.EventType("walletconnect-request-signed")
	EventRequestFailed       = walletevent.EventType("walletconnect-request-failed")
)

// Identity is the wallet account a session is established for.
type Identity interface {
	Address() common.Address
}

// Signer is the signing capability bound to one wallet identity.
// Implementations may block waiting for user confirmation and should honour ctx.
type Signer interface {
	Identity
	SignMessage(ctx context.Context, message []byte) (string, error)
	SignTypedData(ctx context.Context, domain apitypes.TypedDataDomain, types apitypes.Types, primaryType string, message apitypes.TypedDataMessage) (string, error)
	SignTransaction(ctx context.Context, tx *transactions.SendTxArgs) (string, error)
}

// Session is an approved connection between the wallet and one dapp.
type Session struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	URL       string           `json:"url"`
	Icon      string           `json:"icon"`
	ChainID   uint64           `json:"chainId"`
	Accounts  []common.Address `json:"accounts"`
	Connected bool             `json:"connected"`
	CreatedAt int64            `json:"createdAt"`
}

// Validate checks the identity invariants of a session.
func (s *Session) Validate() error {
	if s == nil || strings.TrimSpace(s.ID) == "" {
		return ErrInvalidSession
	}
	if s.Connected && len(s.Accounts) == 0 {
		return ErrInvalidSession
	}
	return nil
}

// Copy returns a deep copy so callers never share the store's records.
func (s *Session) Copy() *Session {
	cpy := *s
	cpy.Accounts = append([]common.Address(nil), s.Accounts...)
	return &cpy
}

// HasAccount reports whether address was exposed to the dapp in this session.
func (s *Session) HasAccount(address common.Address) bool {
	for _, account := range s.Accounts {
		if account == address {
			return true
		}
	}
	return false
}

// CAIP10Accounts returns the session accounts in CAIP-10 format e.g. "eip155:1:0x453...228"
func (s *Session) CAIP10Accounts() []string {
	return caip10Accounts(s.Accounts, []uint64{s.ChainID})
}

// Request is a signing or transaction request received over a session.
type Request struct {
	ID        int64             `json:"id"`
	Method    string            `json:"method"`
	Params    []json.RawMessage `json:"params"`
	SessionID string            `json:"sessionId"`
}
