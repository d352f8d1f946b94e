package walletconnect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func parseCaip2ChainID(str string) (string, uint64, error) {
	caip2 := strings.Split(str, ":")
	if len(caip2) != 2 {
		return "", 0, errors.New("CAIP-2 string is not valid")
	}

	chainIDStr := caip2[1]
	chainID, err := strconv.ParseUint(chainIDStr, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("CAIP-2 second value not valid Chain ID: %w", err)
	}
	return caip2[0], chainID, nil
}

// parseChainID accepts a decimal, 0x-prefixed hex or CAIP-2 ("eip155:1") chain id.
func parseChainID(str string) (uint64, error) {
	switch {
	case strings.Contains(str, ":"):
		namespace, chainID, err := parseCaip2ChainID(str)
		if err != nil {
			return 0, err
		}
		if namespace != "eip155" {
			return 0, fmt.Errorf("unsupported CAIP-2 namespace %s", namespace)
		}
		return chainID, nil
	case strings.HasPrefix(str, "0x"), strings.HasPrefix(str, "0X"):
		return hexutil.DecodeUint64(strings.ToLower(str))
	default:
		return strconv.ParseUint(str, 10, 64)
	}
}

func caip10Accounts(addresses []common.Address, chains []uint64) []string {
	accounts := make([]string, 0, len(addresses)*len(chains))
	for _, address := range addresses {
		for _, chainID := range chains {
			accounts = append(accounts, "eip155:"+strconv.FormatUint(chainID, 10)+":"+address.Hex())
		}
	}
	return accounts
}
