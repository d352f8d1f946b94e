package transactions

import (
	"encoding/json"
	"errors"
	"strings"
)

// JSONProxyType provides a generic way of changing the JSON value before unmarshalling it into the target.
// transform function is called before unmarshalling.
type JSONProxyType struct {
	target    interface{}
	transform func([]byte) ([]byte, error)
}

func (b *JSONProxyType) UnmarshalJSON(input []byte) error {
	if b.transform == nil {
		return errors.New("transform function is not set")
	}

	output, err := b.transform(input)
	if err != nil {
		return err
	}

	return json.Unmarshal(output, b.target)
}

// lenientSendTxArgs instead of SendTxArgs to allow parsing of hex Uint64 with leading 0 ("0x01") and empty hex value ("0x")
type lenientSendTxArgs struct {
	SendTxArgs
	Nonce                JSONProxyType `json:"nonce"`
	Gas                  JSONProxyType `json:"gas"`
	GasPrice             JSONProxyType `json:"gasPrice"`
	Value                JSONProxyType `json:"value"`
	MaxFeePerGas         JSONProxyType `json:"maxFeePerGas"`
	MaxPriorityFeePerGas JSONProxyType `json:"maxPriorityFeePerGas"`
	ChainID              JSONProxyType `json:"chainId"`
}

// Fix hex values with leading 0 or empty
func fixWalletHexValue(input []byte) ([]byte, error) {
	hexStr := string(input)
	if !strings.HasPrefix(hexStr, "\"0x") {
		return input, nil
	}
	trimmedStr := strings.TrimPrefix(hexStr, "\"0x")
	fixedStrNoPrefix := strings.TrimLeft(trimmedStr, "0")
	fixedStr := "\"0x" + fixedStrNoPrefix
	if fixedStr == "\"0x\"" {
		fixedStr = "\"0x0\""
	}

	return []byte(fixedStr), nil
}

func (n *lenientSendTxArgs) UnmarshalJSON(data []byte) error {
	// Avoid recursion
	type Alias lenientSendTxArgs
	var alias Alias

	alias.Nonce = JSONProxyType{target: &alias.SendTxArgs.Nonce, transform: fixWalletHexValue}
	alias.Gas = JSONProxyType{target: &alias.SendTxArgs.Gas, transform: fixWalletHexValue}
	alias.GasPrice = JSONProxyType{target: &alias.SendTxArgs.GasPrice, transform: fixWalletHexValue}
	alias.Value = JSONProxyType{target: &alias.SendTxArgs.Value, transform: fixWalletHexValue}
	alias.MaxFeePerGas = JSONProxyType{target: &alias.SendTxArgs.MaxFeePerGas, transform: fixWalletHexValue}
	alias.MaxPriorityFeePerGas = JSONProxyType{target: &alias.SendTxArgs.MaxPriorityFeePerGas, transform: fixWalletHexValue}
	alias.ChainID = JSONProxyType{target: &alias.SendTxArgs.ChainID, transform: fixWalletHexValue}

	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*n = lenientSendTxArgs(alias)
	return nil
}

// ParseSendTxArgs decodes a dapp transaction object, tolerating the sloppy hex
// quantities wallets commonly receive.
func ParseSendTxArgs(data []byte) (SendTxArgs, error) {
	var params lenientSendTxArgs
	if err := json.Unmarshal(data, &params); err != nil {
		return SendTxArgs{}, err
	}
	if !params.SendTxArgs.Valid() {
		return SendTxArgs{}, ErrInvalidSendTxArgs
	}
	return params.SendTxArgs, nil
}
