package walletconnect

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"

	"github.com/status-im/walletconnect-core/account"
	wcerrors "github.com/status-im/walletconnect-core/errors"
	"github.com/status-im/walletconnect-core/params"
	wc "github.com/status-im/walletconnect-core/services/wallet/walletconnect"
)

const testURI = "wc:8a5e5bdc-a0e4-4702-ba63-8f1a5655744f@1?bridge=https%3A%2F%2Fbridge.walletconnect.org&key=41791102999c339c844880b23950704cc43aa840f3739e365323cda4dfa89e7a"

func newKeySigner(t *testing.T) *account.KeySigner {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return account.NewKeySigner(key, params.DefaultChainID)
}

type APISuite struct {
	suite.Suite

	service *Service
	api     *API
	signer  *account.KeySigner
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.signer = newKeySigner(s.T())
	service, err := NewService(params.NewConfig(""), s.signer, &event.Feed{})
	s.Require().NoError(err)
	s.Require().NoError(service.Start())
	s.service = service

	apis := service.APIs()
	s.Require().Len(apis, 1)
	s.Require().Equal("walletconnect", apis[0].Namespace)
	s.api = apis[0].Service.(*API)
}

func (s *APISuite) TearDownTest() {
	s.Require().NoError(s.service.Stop())
}

func (s *APISuite) errorCode(err error) wcerrors.ErrorCode {
	resp, ok := err.(*wcerrors.ErrorResponse)
	s.Require().True(ok, "expected an ErrorResponse, got %T", err)
	return resp.Code
}

func (s *APISuite) TestConnectListDisconnect() {
	ctx := context.Background()

	session, err := s.api.Connect(ctx, testURI)
	s.Require().NoError(err)
	s.Require().Equal(s.signer.Address(), session.Accounts[0])

	sessions, err := s.api.ListSessions(ctx)
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)

	s.Require().NoError(s.api.Disconnect(ctx, session.ID))
	sessions, err = s.api.ListSessions(ctx)
	s.Require().NoError(err)
	s.Require().Empty(sessions)
}

func (s *APISuite) TestSignRequest() {
	ctx := context.Background()
	session, err := s.api.Connect(ctx, testURI)
	s.Require().NoError(err)

	message, err := json.Marshal("hello")
	s.Require().NoError(err)
	signature, err := s.api.HandleSignRequest(ctx, wc.Request{
		ID:        1,
		Method:    params.PersonalSignMethodName,
		Params:    []json.RawMessage{message},
		SessionID: session.ID,
	})
	s.Require().NoError(err)
	s.Require().Len(signature, 2+2*crypto.SignatureLength)

	_, err = s.api.HandleSignRequest(ctx, wc.Request{
		ID:        1,
		Method:    params.PersonalSignMethodName,
		Params:    []json.RawMessage{message},
		SessionID: session.ID,
	})
	s.Require().Equal(wcerrors.DuplicateRequestCode, s.errorCode(err))
}

func (s *APISuite) TestErrorCodes() {
	ctx := context.Background()
	session, err := s.api.Connect(ctx, testURI)
	s.Require().NoError(err)

	_, err = s.api.HandleSignRequest(ctx, wc.Request{ID: 1, Method: "foo_bar", SessionID: session.ID})
	s.Require().Equal(wcerrors.UnsupportedMethodCode, s.errorCode(err))

	_, err = s.api.HandleSignRequest(ctx, wc.Request{ID: 2, Method: params.PersonalSignMethodName, SessionID: "missing"})
	s.Require().Equal(wcerrors.SessionNotFoundCode, s.errorCode(err))

	_, err = s.api.HandleSignRequest(ctx, wc.Request{ID: 3, Method: params.PersonalSignMethodName, SessionID: session.ID})
	s.Require().Equal(wcerrors.InvalidParamsCode, s.errorCode(err))

	_, err = s.api.HandleSignRequest(ctx, wc.Request{
		ID:        4,
		Method:    params.SignTypedDataV4MethodName,
		Params:    []json.RawMessage{json.RawMessage(`"0x1"`), json.RawMessage(`"{oops"`)},
		SessionID: session.ID,
	})
	s.Require().Equal(wcerrors.TypedDataInvalidCode, s.errorCode(err))

	s.Require().NoError(s.api.ClearSessions(ctx))
	_, err = s.api.HandleTransactionRequest(ctx, wc.Request{ID: 5, SessionID: session.ID})
	s.Require().Equal(wcerrors.SessionNotFoundCode, s.errorCode(err))
}

func (s *APISuite) TestSignerSwitch() {
	ctx := context.Background()
	session, err := s.api.Connect(ctx, testURI)
	s.Require().NoError(err)

	other := newKeySigner(s.T())
	s.service.SetSigner(other)

	message, err := json.Marshal("hello")
	s.Require().NoError(err)
	_, err = s.api.HandleSignRequest(ctx, wc.Request{ID: 1, Method: params.PersonalSignMethodName, Params: []json.RawMessage{message}, SessionID: session.ID})
	s.Require().Equal(wcerrors.UnauthorizedAccountCode, s.errorCode(err))

	s.service.SetSigner(nil)
	_, err = s.api.Connect(ctx, "wc:second@1?key=second")
	s.Require().Equal(wcerrors.SignerNotConfiguredCode, s.errorCode(err))
}

func (s *APISuite) TestSupportedMethods() {
	s.Require().Contains(s.api.SupportedMethods(context.Background()), params.SignTypedDataV4MethodName)
}

func TestOpenKeyValueStore(t *testing.T) {
	tests := []struct {
		name    string
		config  func(dir string) *params.Config
		wantErr bool
	}{
		{
			name:   "memory",
			config: func(string) *params.Config { return params.NewConfig("") },
		},
		{
			name:   "leveldb",
			config: params.NewConfig,
		},
		{
			name: "sqlite",
			config: func(dir string) *params.Config {
				config := params.NewConfig(dir)
				config.StorageBackend = params.StorageBackendSQLite
				config.DatabasePassword = "secret"
				return config
			},
		},
		{
			name: "unknown",
			config: func(dir string) *params.Config {
				config := params.NewConfig(dir)
				config.StorageBackend = "redis"
				return config
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := OpenKeyValueStore(tt.config(t.TempDir()))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer kv.Close()

			require.NoError(t, kv.Set(params.DefaultSessionsKey, []byte("[]")))
			value, err := kv.Get(params.DefaultSessionsKey)
			require.NoError(t, err)
			require.Equal(t, []byte("[]"), value)
		})
	}
}

func TestSessionsPersistAcrossServiceRestarts(t *testing.T) {
	dir := t.TempDir()
	signer := newKeySigner(t)

	service, err := NewService(params.NewConfig(dir), signer, nil)
	require.NoError(t, err)
	require.NoError(t, service.Start())
	session, err := service.Core().Connect(testURI, signer)
	require.NoError(t, err)
	require.NoError(t, service.Stop())

	restarted, err := NewService(params.NewConfig(dir), signer, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, restarted.Stop()) }()

	sessions := restarted.Core().ListSessions()
	require.Len(t, sessions, 1)
	require.Equal(t, session.ID, sessions[0].ID)
}

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	config := params.NewConfig("")
	config.SessionsKey = ""
	_, err := NewService(config, nil, nil)
	require.Error(t, err)
}
