package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/status-im/walletconnect-core/account"
	"github.com/status-im/walletconnect-core/logutils"
	"github.com/status-im/walletconnect-core/params"
	"github.com/status-im/walletconnect-core/services/walletconnect"
)

const keystoreDir = "keystore"

func setupLogging(cCtx *cli.Context) error {
	return logutils.OverrideRootLogWithConfig(params.LogSettings{
		Enabled: true,
		Level:   cCtx.String(LogLevelFlag),
	}, false)
}

func loadConfig(cCtx *cli.Context) (*params.Config, error) {
	dataDir := cCtx.String(DataDirFlag)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}
	return params.LoadConfigFromFiles(dataDir, cCtx.StringSlice(ConfigFlag)...)
}

func keydir(config *params.Config) string {
	return filepath.Join(config.DataDir, keystoreDir)
}

// loadSigner decrypts the key of --address. Commands that do not sign may pass optional.
func loadSigner(cCtx *cli.Context, config *params.Config, optional bool) (*account.KeySigner, error) {
	address := cCtx.String(AddressFlag)
	if address == "" {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("--%s is required", AddressFlag)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %s", address)
	}

	key, err := account.LoadKeyFromDir(keydir(config), common.HexToAddress(address), cCtx.String(PasswordFlag))
	if err != nil {
		return nil, err
	}
	return account.NewKeySigner(key, config.DefaultChainID), nil
}

// openService creates the service. Callers must Stop it.
func openService(config *params.Config, signer *account.KeySigner) (*walletconnect.Service, error) {
	service, err := walletconnect.NewService(config, signer, &event.Feed{})
	if err != nil {
		return nil, err
	}
	if err := service.Start(); err != nil {
		return nil, err
	}
	return service, nil
}

func printJSON(cCtx *cli.Context, v interface{}) error {
	encoder := json.NewEncoder(cCtx.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// rawParams turns command line arguments into request params. Arguments that are
// valid JSON are kept as is, anything else becomes a JSON string.
func rawParams(args []string) ([]json.RawMessage, error) {
	params := make([]json.RawMessage, 0, len(args))
	for _, arg := range args {
		if json.Valid([]byte(arg)) {
			params = append(params, json.RawMessage(arg))
			continue
		}
		encoded, err := json.Marshal(arg)
		if err != nil {
			return nil, err
		}
		params = append(params, encoded)
	}
	return params, nil
}
