package walletevent

import (
	"github.com/ethereum/go-ethereum/common"
)

// EventType type for event types.
type EventType string

// Event is a type for wallet connect session and request events.
type Event struct {
	Type      EventType        `json:"type"`
	SessionID string           `json:"sessionId,omitempty"`
	Accounts  []common.Address `json:"accounts"`
	Message   string           `json:"message"`
	At        int64            `json:"at"`
	ChainID   uint64           `json:"chainId"`
	RequestID int64            `json:"requestId,omitempty"`
	Method    string           `json:"method,omitempty"`
}
