package walletconnect

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/status-im/walletconnect-core/common"
	"github.com/status-im/walletconnect-core/services/wallet/walletevent"
	"github.com/status-im/walletconnect-core/transactions"
)

type requestKey struct {
	sessionID string
	requestID int64
}

// Dispatcher resolves the session of a request and routes it to the signer.
type Dispatcher struct {
	store          *SessionStore
	registry       *CommandRegistry
	signingTimeout time.Duration
	feed           *event.Feed

	dedupeMu sync.Mutex
	seen     *ttlcache.Cache[requestKey, struct{}]
	running  bool
}

// NewDispatcher creates a dispatcher. A zero signingTimeout leaves signing unbounded,
// a zero dedupeWindow disables duplicate request detection.
func NewDispatcher(store *SessionStore, registry *CommandRegistry, signingTimeout, dedupeWindow time.Duration, feed *event.Feed) *Dispatcher {
	d := &Dispatcher{
		store:          store,
		registry:       registry,
		signingTimeout: signingTimeout,
		feed:           feed,
	}
	if dedupeWindow > 0 {
		d.seen = ttlcache.New[requestKey, struct{}](
			ttlcache.WithTTL[requestKey, struct{}](dedupeWindow),
			ttlcache.WithDisableTouchOnHit[requestKey, struct{}](),
		)
	}
	return d
}

// Start runs the expiry loop of the dedupe cache.
func (d *Dispatcher) Start() {
	d.dedupeMu.Lock()
	defer d.dedupeMu.Unlock()
	if d.seen == nil || d.running {
		return
	}
	d.running = true
	go d.seen.Start()
}

// Stop ends the expiry loop. It is a no-op unless Start was called.
func (d *Dispatcher) Stop() {
	d.dedupeMu.Lock()
	defer d.dedupeMu.Unlock()
	if d.seen == nil || !d.running {
		return
	}
	d.running = false
	d.seen.Stop()
}

// HandleSignRequest answers personal_sign, eth_sign and the eth_signTypedData family.
func (d *Dispatcher) HandleSignRequest(ctx context.Context, request Request, signer Signer) (string, error) {
	session, err := d.resolve(request, signer)
	if err != nil {
		return "", d.failed(request, session, err)
	}

	command, ok := d.registry.GetCommand(request.Method)
	if !ok {
		log.Warn("unsupported walletconnect method", "method", request.Method, "session", request.SessionID)
		return "", d.failed(request, session, &UnsupportedMethodError{Method: request.Method})
	}

	if err := d.checkDuplicate(request); err != nil {
		return "", d.failed(request, session, err)
	}

	signCtx, cancel := d.signingContext(ctx)
	defer cancel()

	signature, err := command.Execute(signCtx, session, request, signer)
	if err != nil {
		return "", d.failed(request, session, err)
	}

	d.signed(request, session)
	return signature, nil
}

// HandleTransactionRequest signs the transaction object carried in params[0].
// The method name is not checked, the caller has already routed the request here.
func (d *Dispatcher) HandleTransactionRequest(ctx context.Context, request Request, signer Signer) (string, error) {
	session, err := d.resolve(request, signer)
	if err != nil {
		return "", d.failed(request, session, err)
	}

	raw, err := paramAt(request.Params, 0)
	if err != nil {
		return "", d.failed(request, session, err)
	}
	args, err := transactions.ParseSendTxArgs(raw)
	if err != nil {
		return "", d.failed(request, session, fmt.Errorf("%w: %v", ErrInvalidParams, err))
	}

	if args.From != (gethcommon.Address{}) && args.From != signer.Address() {
		return "", d.failed(request, session, ErrUnauthorizedAccount)
	}
	if args.ChainID == nil {
		args.ChainID = (*hexutil.Big)(new(big.Int).SetUint64(session.ChainID))
	} else if !args.ChainID.ToInt().IsUint64() || args.ChainID.ToInt().Uint64() != session.ChainID {
		return "", d.failed(request, session, fmt.Errorf("%w: got %s, session is on %d", ErrChainIDMismatch, args.ChainID.String(), session.ChainID))
	}

	if err := d.checkDuplicate(request); err != nil {
		return "", d.failed(request, session, err)
	}

	signCtx, cancel := d.signingContext(ctx)
	defer cancel()

	signed, err := signer.SignTransaction(signCtx, &args)
	if err != nil {
		return "", d.failed(request, session, &SigningFailedError{Method: request.Method, Cause: err})
	}

	d.signed(request, session)
	return signed, nil
}

// resolve finds the connected session the request belongs to and makes sure
// the signer speaks for one of its accounts.
func (d *Dispatcher) resolve(request Request, signer Signer) (*Session, error) {
	session, ok := d.store.Get(request.SessionID)
	if !ok || !session.Connected {
		return nil, ErrSessionNotFound
	}
	if common.IsNil(signer) || !session.HasAccount(signer.Address()) {
		return session, ErrUnauthorizedAccount
	}
	return session, nil
}

func (d *Dispatcher) checkDuplicate(request Request) error {
	if d.seen == nil {
		return nil
	}

	key := requestKey{sessionID: request.SessionID, requestID: request.ID}

	d.dedupeMu.Lock()
	defer d.dedupeMu.Unlock()

	if d.seen.Get(key) != nil {
		return ErrDuplicateRequest
	}
	d.seen.Set(key, struct{}{}, ttlcache.DefaultTTL)
	return nil
}

func (d *Dispatcher) signingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.signingTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.signingTimeout)
}

func (d *Dispatcher) signed(request Request, session *Session) {
	log.Debug("walletconnect request signed", "id", request.ID, "method", request.Method, "session", session.ID)
	d.publish(EventRequestSigned, request, session, "")
}

func (d *Dispatcher) failed(request Request, session *Session, err error) error {
	log.Error("walletconnect request failed", "id", request.ID, "method", request.Method, "session", request.SessionID, "error", err)
	d.publish(EventRequestFailed, request, session, err.Error())
	return err
}

func (d *Dispatcher) publish(eventType walletevent.EventType, request Request, session *Session, message string) {
	if d.feed == nil {
		return
	}
	ev := walletevent.Event{
		Type:      eventType,
		SessionID: request.SessionID,
		Message:   message,
		At:        time.Now().UnixMilli(),
		RequestID: request.ID,
		Method:    request.Method,
	}
	if session != nil {
		ev.ChainID = session.ChainID
		ev.Accounts = session.Accounts
	}
	d.feed.Send(ev)
}
