package walletconnect

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/log"

	wcerrors "github.com/status-im/walletconnect-core/errors"
	wc "github.com/status-im/walletconnect-core/services/wallet/walletconnect"
)

func NewAPI(s *Service) *API {
	return &API{s: s}
}

// API is class with methods available over RPC.
type API struct {
	s *Service
}

// Connect pairs with the dapp behind uri using the configured wallet account.
func (api *API) Connect(ctx context.Context, uri string) (*wc.Session, error) {
	log.Debug("call to connect walletconnect session")
	signer, err := api.s.Signer()
	if err != nil {
		return nil, toErrorResponse(err)
	}
	session, err := api.s.core.Connect(uri, signer)
	return session, toErrorResponse(err)
}

func (api *API) Disconnect(ctx context.Context, sessionID string) error {
	log.Debug("call to disconnect walletconnect session", "id", sessionID)
	api.s.core.Disconnect(sessionID)
	return nil
}

func (api *API) ListSessions(ctx context.Context) ([]*wc.Session, error) {
	return api.s.core.ListSessions(), nil
}

func (api *API) ClearSessions(ctx context.Context) error {
	log.Debug("call to clear walletconnect sessions")
	api.s.core.ClearSessions()
	return nil
}

func (api *API) SupportedMethods(ctx context.Context) []string {
	return api.s.core.Methods()
}

func (api *API) HandleSignRequest(ctx context.Context, request wc.Request) (string, error) {
	signer, err := api.s.Signer()
	if err != nil {
		return "", toErrorResponse(err)
	}
	result, err := api.s.core.HandleSignRequest(ctx, request, signer)
	return result, toErrorResponse(err)
}

func (api *API) HandleTransactionRequest(ctx context.Context, request wc.Request) (string, error) {
	signer, err := api.s.Signer()
	if err != nil {
		return "", toErrorResponse(err)
	}
	result, err := api.s.core.HandleTransactionRequest(ctx, request, signer)
	return result, toErrorResponse(err)
}

var errorCodes = []struct {
	err  error
	code wcerrors.ErrorCode
}{
	{wc.ErrConnectFailed, wcerrors.ConnectFailedCode},
	{wc.ErrSessionNotFound, wcerrors.SessionNotFoundCode},
	{wc.ErrUnsupportedMethod, wcerrors.UnsupportedMethodCode},
	{wc.ErrTypedDataInvalid, wcerrors.TypedDataInvalidCode},
	{wc.ErrSigningFailed, wcerrors.SigningFailedCode},
	{wc.ErrDuplicateRequest, wcerrors.DuplicateRequestCode},
	{wc.ErrInvalidParamsCount, wcerrors.InvalidParamsCode},
	{wc.ErrInvalidParams, wcerrors.InvalidParamsCode},
	{wc.ErrUnauthorizedAccount, wcerrors.UnauthorizedAccountCode},
	{wc.ErrChainIDMismatch, wcerrors.ChainIDMismatchCode},
	{ErrSignerNotConfigured, wcerrors.SignerNotConfiguredCode},
}

func toErrorResponse(err error) error {
	if err == nil {
		return nil
	}
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return wcerrors.NewErrorResponse(entry.code, err)
		}
	}
	return wcerrors.CreateErrorResponseFromError(err)
}
