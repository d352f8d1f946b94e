package walletconnect

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/status-im/walletconnect-core/db"
	"github.com/status-im/walletconnect-core/params"
	"github.com/status-im/walletconnect-core/services/wallet/walletevent"
)

// Service is the entry point callers use to manage sessions and answer requests.
type Service struct {
	store      *SessionStore
	negotiator *Negotiator
	dispatcher *Dispatcher
	feed       *event.Feed
}

func NewService(kv db.KeyValueStore, config *params.Config, feed *event.Feed, opts ...StoreOption) *Service {
	store := NewSessionStore(kv, config.SessionsKey, opts...)
	return &Service{
		store:      store,
		negotiator: NewNegotiator(store, config.DefaultChainID, feed),
		dispatcher: NewDispatcher(store, DefaultCommandRegistry(), config.SigningTimeoutDuration(), config.DedupeWindowDuration(), feed),
		feed:       feed,
	}
}

func (s *Service) Start() {
	s.dispatcher.Start()
}

func (s *Service) Stop() {
	s.dispatcher.Stop()
}

// Connect parses uri and records a connected session for identity.
func (s *Service) Connect(uri string, identity Identity) (*Session, error) {
	return s.negotiator.Connect(uri, identity)
}

// Disconnect ends a session. Unknown ids are ignored.
func (s *Service) Disconnect(sessionID string) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		log.Debug("disconnect of unknown walletconnect session", "id", sessionID)
		return
	}

	s.store.Remove(sessionID)

	log.Info("walletconnect session disconnected", "id", sessionID)
	s.publish(walletevent.Event{
		Type:      EventSessionDisconnected,
		SessionID: session.ID,
		Accounts:  session.Accounts,
		ChainID:   session.ChainID,
		At:        time.Now().UnixMilli(),
	})
}

func (s *Service) ListSessions() []*Session {
	return s.store.GetAll()
}

// ClearSessions drops every session, connected or not.
func (s *Service) ClearSessions() {
	s.store.Clear()
	s.publish(walletevent.Event{
		Type: EventSessionsCleared,
		At:   time.Now().UnixMilli(),
	})
}

func (s *Service) HandleSignRequest(ctx context.Context, request Request, signer Signer) (string, error) {
	return s.dispatcher.HandleSignRequest(ctx, request, signer)
}

func (s *Service) HandleTransactionRequest(ctx context.Context, request Request, signer Signer) (string, error) {
	return s.dispatcher.HandleTransactionRequest(ctx, request, signer)
}

// Methods lists the signing methods HandleSignRequest routes.
func (s *Service) Methods() []string {
	return s.dispatcher.registry.Methods()
}

func (s *Service) publish(ev walletevent.Event) {
	if s.feed != nil {
		s.feed.Send(ev)
	}
}
