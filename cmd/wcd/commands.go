package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/status-im/walletconnect-core/account"
	"github.com/status-im/walletconnect-core/logutils"
	"github.com/status-im/walletconnect-core/params"
	wc "github.com/status-im/walletconnect-core/services/wallet/walletconnect"
	"github.com/status-im/walletconnect-core/services/walletconnect"
)

var errMissingArgument = errors.New("missing argument")

// withService loads the config, opens the service and stops it once fn returns.
func withService(cCtx *cli.Context, needsSigner bool, fn func(*walletconnect.Service, *account.KeySigner) error) (err error) {
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	signer, err := loadSigner(cCtx, config, !needsSigner)
	if err != nil {
		return err
	}
	service, err := openService(config, signer)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, service.Stop())
	}()
	return fn(service, signer)
}

func newKey(cCtx *cli.Context) error {
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	key, info, err := account.CreateKey(cCtx.String(PrivateKeyFlag))
	if err != nil {
		return err
	}

	path, err := account.StoreKey(keydir(config), key, cCtx.String(PasswordFlag))
	if err != nil {
		return err
	}
	return printJSON(cCtx, map[string]string{
		"address":   info.Address,
		"publicKey": info.PublicKey,
		"path":      path,
	})
}

func connect(cCtx *cli.Context) error {
	uri := cCtx.Args().First()
	if uri == "" {
		return fmt.Errorf("%w: uri", errMissingArgument)
	}
	return withService(cCtx, true, func(service *walletconnect.Service, signer *account.KeySigner) error {
		session, err := service.Core().Connect(uri, signer)
		if err != nil {
			return err
		}
		return printJSON(cCtx, session)
	})
}

func listSessions(cCtx *cli.Context) error {
	return withService(cCtx, false, func(service *walletconnect.Service, _ *account.KeySigner) error {
		return printJSON(cCtx, service.Core().ListSessions())
	})
}

func disconnect(cCtx *cli.Context) error {
	sessionID := cCtx.Args().First()
	if sessionID == "" {
		return fmt.Errorf("%w: session id", errMissingArgument)
	}
	return withService(cCtx, false, func(service *walletconnect.Service, _ *account.KeySigner) error {
		service.Core().Disconnect(sessionID)
		return nil
	})
}

func clearSessions(cCtx *cli.Context) error {
	return withService(cCtx, false, func(service *walletconnect.Service, _ *account.KeySigner) error {
		service.Core().ClearSessions()
		return nil
	})
}

func sign(cCtx *cli.Context) error {
	requestParams, err := rawParams(cCtx.Args().Slice())
	if err != nil {
		return err
	}
	request := wc.Request{
		ID:        cCtx.Int64(RequestIDFlag),
		Method:    cCtx.String(MethodFlag),
		Params:    requestParams,
		SessionID: cCtx.String(SessionFlag),
	}
	return withService(cCtx, true, func(service *walletconnect.Service, signer *account.KeySigner) error {
		signature, err := service.Core().HandleSignRequest(cCtx.Context, request, signer)
		if err != nil {
			return err
		}
		return printJSON(cCtx, map[string]interface{}{"id": request.ID, "result": signature})
	})
}

func signTransaction(cCtx *cli.Context) error {
	if cCtx.Args().Len() != 1 {
		return fmt.Errorf("%w: transaction json", errMissingArgument)
	}
	requestParams, err := rawParams(cCtx.Args().Slice())
	if err != nil {
		return err
	}
	request := wc.Request{
		ID:        cCtx.Int64(RequestIDFlag),
		Method:    params.SignTransactionMethodName,
		Params:    requestParams,
		SessionID: cCtx.String(SessionFlag),
	}
	return withService(cCtx, true, func(service *walletconnect.Service, signer *account.KeySigner) error {
		signed, err := service.Core().HandleTransactionRequest(cCtx.Context, request, signer)
		if err != nil {
			return err
		}
		return printJSON(cCtx, map[string]interface{}{"id": request.ID, "result": signed})
	})
}

func serve(cCtx *cli.Context) error {
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	if port := cCtx.Int(MetricsFlag); port > 0 {
		config.MetricsPort = port
	}
	signer, err := loadSigner(cCtx, config, true)
	if err != nil {
		return err
	}
	service, err := openService(config, signer)
	if err != nil {
		return err
	}

	logger := logutils.ZapLogger().Named("wcd")
	logger.Info("serving", zap.String("datadir", config.DataDir), zap.Int("metricsPort", config.MetricsPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	return service.Stop()
}
