package walletconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/status-im/walletconnect-core/params"
)

type SignCommand interface {
	Execute(ctx context.Context, session *Session, request Request, signer Signer) (string, error)
}

// CommandRegistry routes methods to commands. Lookups walk the registration
// order so the first registered match wins.
type CommandRegistry struct {
	commands map[string]SignCommand
	order    []string
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]SignCommand),
	}
}

func (r *CommandRegistry) Register(method string, command SignCommand) {
	if _, exists := r.commands[method]; !exists {
		r.order = append(r.order, method)
	}
	r.commands[method] = command
}

func (r *CommandRegistry) GetCommand(method string) (SignCommand, bool) {
	for _, registered := range r.order {
		if registered == method {
			return r.commands[registered], true
		}
	}
	return nil, false
}

// Methods lists the registered methods in routing order.
func (r *CommandRegistry) Methods() []string {
	return append([]string(nil), r.order...)
}

// DefaultCommandRegistry holds the signing methods a wallet answers over a session.
func DefaultCommandRegistry() *CommandRegistry {
	r := NewCommandRegistry()
	r.Register(params.PersonalSignMethodName, &MessageSignCommand{Method: params.PersonalSignMethodName, MessageIndex: 0})
	r.Register(params.EthSignMethodName, &MessageSignCommand{Method: params.EthSignMethodName, MessageIndex: 1})
	r.Register(params.SignTypedDataMethodName, &TypedDataSignCommand{Method: params.SignTypedDataMethodName, DataIndex: 1})
	r.Register(params.SignTypedDataV3MethodName, &TypedDataSignCommand{Method: params.SignTypedDataV3MethodName, DataIndex: 1})
	r.Register(params.SignTypedDataV4MethodName, &TypedDataSignCommand{Method: params.SignTypedDataV4MethodName, DataIndex: 1})
	return r
}

// MessageSignCommand signs the message found at MessageIndex of the params.
// personal_sign carries it first, eth_sign second after the address.
type MessageSignCommand struct {
	Method       string
	MessageIndex int
}

func (c *MessageSignCommand) Execute(ctx context.Context, session *Session, request Request, signer Signer) (string, error) {
	raw, err := paramAt(request.Params, c.MessageIndex)
	if err != nil {
		return "", err
	}
	message, err := decodeMessage(raw)
	if err != nil {
		return "", err
	}

	signature, err := signer.SignMessage(ctx, message)
	if err != nil {
		return "", &SigningFailedError{Method: c.Method, Cause: err}
	}
	return signature, nil
}

// TypedDataSignCommand signs the EIP-712 document found at DataIndex of the params.
type TypedDataSignCommand struct {
	Method    string
	DataIndex int
}

func (c *TypedDataSignCommand) Execute(ctx context.Context, session *Session, request Request, signer Signer) (string, error) {
	raw, err := paramAt(request.Params, c.DataIndex)
	if err != nil {
		return "", err
	}
	typed, err := decodeTypedData(raw)
	if err != nil {
		return "", err
	}
	// a domain bound to another chain must not be signed over this session
	if typed.Domain.ChainId != nil {
		chainID := (*big.Int)(typed.Domain.ChainId)
		if !chainID.IsUint64() || chainID.Uint64() != session.ChainID {
			return "", fmt.Errorf("%w: typed data is for chain %s, session is on %d", ErrChainIDMismatch, chainID, session.ChainID)
		}
	}

	signature, err := signer.SignTypedData(ctx, typed.Domain, typed.Types, typed.PrimaryType, typed.Message)
	if err != nil {
		return "", &SigningFailedError{Method: c.Method, Cause: err}
	}
	return signature, nil
}

func paramAt(params []json.RawMessage, index int) (json.RawMessage, error) {
	if index >= len(params) {
		return nil, fmt.Errorf("%w: expected at least %d, got %d", ErrInvalidParamsCount, index+1, len(params))
	}
	return params[index], nil
}

// decodeMessage returns the bytes of a 0x-hex message, or the UTF-8 bytes of any other string.
func decodeMessage(raw json.RawMessage) ([]byte, error) {
	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		return nil, fmt.Errorf("%w: message must be a string", ErrInvalidParams)
	}
	if strings.HasPrefix(message, "0x") || strings.HasPrefix(message, "0X") {
		if decoded, err := hexutil.Decode("0x" + message[2:]); err == nil {
			return decoded, nil
		}
	}
	return []byte(message), nil
}

// decodeTypedData accepts the typed data either as a JSON encoded string or inline.
func decodeTypedData(raw json.RawMessage) (*apitypes.TypedData, error) {
	payload := []byte(raw)
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		payload = []byte(encoded)
	}

	var typed apitypes.TypedData
	if err := json.Unmarshal(payload, &typed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypedDataInvalid, err)
	}
	if _, _, err := apitypes.TypedDataAndHash(typed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypedDataInvalid, err)
	}
	return &typed, nil
}
