package walletconnect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/event"
	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/p2p"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/status-im/walletconnect-core/common"
	"github.com/status-im/walletconnect-core/db"
	"github.com/status-im/walletconnect-core/logutils"
	"github.com/status-im/walletconnect-core/metrics"
	"github.com/status-im/walletconnect-core/metrics/sessions"
	"github.com/status-im/walletconnect-core/params"
	wc "github.com/status-im/walletconnect-core/services/wallet/walletconnect"
	"github.com/status-im/walletconnect-core/sqlite"
)

// ErrSignerNotConfigured is returned by API calls that need a wallet account before one was set.
var ErrSignerNotConfigured = errors.New("no signer configured")

const metricsShutdownTimeout = 5 * time.Second

// OpenKeyValueStore opens the storage backend selected by the config.
func OpenKeyValueStore(config *params.Config) (db.KeyValueStore, error) {
	switch config.StorageBackend {
	case params.StorageBackendMemory:
		return db.NewMemoryStore()
	case params.StorageBackendLevelDB:
		return db.NewLevelDBStore(config.DataDir, config.DatabaseName)
	case params.StorageBackendSQLite:
		return sqlite.OpenKeyValueStore(config.DatabasePath(), config.DatabasePassword)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}

// Service wires the session core to its storage, metrics and the RPC layer.
type Service struct {
	config *params.Config
	kv     db.KeyValueStore
	core   *wc.Service
	feed   *event.Feed
	logger *zap.Logger

	signerMu sync.RWMutex
	signer   wc.Signer

	metricsServer *metrics.Server
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

func NewService(config *params.Config, signer wc.Signer, feed *event.Feed) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	kv, err := OpenKeyValueStore(config)
	if err != nil {
		return nil, err
	}

	logger := logutils.ZapLogger().Named("walletconnect")
	core := wc.NewService(kv, config, feed, wc.WithPersistErrorHandler(func(op string, err error) {
		logger.Warn("session storage unavailable, keeping sessions in memory", zap.String("op", op), zap.Error(err))
	}))

	return &Service{
		config: config,
		kv:     kv,
		core:   core,
		feed:   feed,
		logger: logger,
		signer: signer,
	}, nil
}

func (s *Service) Start() error {
	s.core.Start()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.feed != nil {
		s.wg.Add(1)
		go func() {
			defer common.LogOnPanic()
			defer s.wg.Done()
			count := func() int { return len(s.core.ListSessions()) }
			if err := sessions.SubscribeWalletEvents(ctx, s.feed, count); err != nil {
				s.logger.Error("metrics subscription stopped", zap.Error(err))
			}
		}()
	}

	if s.config.MetricsPort > 0 {
		s.metricsServer = metrics.NewMetricsServer(s.config.MetricsPort, gethmetrics.DefaultRegistry)
		go s.metricsServer.Listen()
	}

	s.logger.Info("walletconnect service started", zap.String("backend", s.config.StorageBackend))
	return nil
}

func (s *Service) Stop() error {
	var err error
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	if s.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		err = multierr.Append(err, s.metricsServer.Stop(ctx))
		cancel()
	}

	s.core.Stop()
	err = multierr.Append(err, s.kv.Close())
	return err
}

func (s *Service) APIs() []gethrpc.API {
	return []gethrpc.API{
		{
			Namespace: "walletconnect",
			Version:   "0.1.0",
			Service:   NewAPI(s),
		},
	}
}

func (s *Service) Protocols() []p2p.Protocol {
	return nil
}

// Core exposes the session core for in-process callers.
func (s *Service) Core() *wc.Service {
	return s.core
}

// SetSigner switches the wallet account that answers requests. Existing sessions
// keep the accounts they were created with.
func (s *Service) SetSigner(signer wc.Signer) {
	s.signerMu.Lock()
	defer s.signerMu.Unlock()
	s.signer = signer
}

func (s *Service) Signer() (wc.Signer, error) {
	s.signerMu.RLock()
	defer s.signerMu.RUnlock()
	if common.IsNil(s.signer) {
		return nil, ErrSignerNotConfigured
	}
	return s.signer, nil
}
