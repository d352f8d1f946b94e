package walletconnect

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/status-im/walletconnect-core/db"
	"github.com/status-im/walletconnect-core/params"
	"github.com/status-im/walletconnect-core/transactions"
)

var (
	testAddress      = common.HexToAddress("0x2222222222222222222222222222222222222222")
	errKVUnavailable = errors.New("kv unavailable")
)

type mockSigner struct {
	mock.Mock
	address common.Address
}

func newMockSigner() *mockSigner {
	return &mockSigner{address: testAddress}
}

func (m *mockSigner) Address() common.Address {
	return m.address
}

func (m *mockSigner) SignMessage(ctx context.Context, message []byte) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *mockSigner) SignTypedData(ctx context.Context, domain apitypes.TypedDataDomain, types apitypes.Types, primaryType string, message apitypes.TypedDataMessage) (string, error) {
	args := m.Called(ctx, domain, types, primaryType, message)
	return args.String(0), args.Error(1)
}

func (m *mockSigner) SignTransaction(ctx context.Context, tx *transactions.SendTxArgs) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

// flakyKV wraps a memory store and fails writes on demand.
type flakyKV struct {
	db.KeyValueStore
	mu       sync.Mutex
	failSet  bool
	failGet  bool
	setCalls int
}

func (f *flakyKV) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errKVUnavailable
	}
	return f.KeyValueStore.Get(key)
}

func (f *flakyKV) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.failSet {
		return errKVUnavailable
	}
	return f.KeyValueStore.Set(key, value)
}

func newMemoryKV(t *testing.T) db.KeyValueStore {
	kv, err := db.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func newTestConfig() *params.Config {
	return params.NewConfig("")
}

func newTestService(t *testing.T) (*Service, db.KeyValueStore) {
	kv := newMemoryKV(t)
	service := NewService(kv, newTestConfig(), nil)
	service.Start()
	t.Cleanup(service.Stop)
	return service, kv
}
