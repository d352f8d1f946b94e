package walletconnect

import (
	"time"

	"github.com/google/uuid"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/status-im/walletconnect-core/common"
	"github.com/status-im/walletconnect-core/params"
	"github.com/status-im/walletconnect-core/services/wallet/walletevent"
)

// Negotiator turns connection URIs into stored sessions.
type Negotiator struct {
	store          *SessionStore
	defaultChainID uint64
	feed           *event.Feed
	now            func() time.Time
}

func NewNegotiator(store *SessionStore, defaultChainID uint64, feed *event.Feed) *Negotiator {
	return &Negotiator{
		store:          store,
		defaultChainID: defaultChainID,
		feed:           feed,
		now:            time.Now,
	}
}

// Connect establishes a session for identity from a wc: URI. The session is
// connected as soon as it is stored, there is no handshake with the peer.
func (n *Negotiator) Connect(uri string, identity Identity) (*Session, error) {
	if common.IsNil(identity) {
		log.Warn("walletconnect connect without identity")
		return nil, ErrConnectFailed
	}
	address := identity.Address()
	if address == (gethcommon.Address{}) {
		log.Warn("walletconnect connect with empty identity address")
		return nil, ErrConnectFailed
	}

	session := n.newSession(ParseURI(uri), address)
	if err := n.store.Insert(session); err != nil {
		log.Error("failed to store walletconnect session", "id", session.ID, "error", err)
		return nil, ErrConnectFailed
	}

	log.Info("walletconnect session connected", "id", session.ID, "url", session.URL, "chainId", session.ChainID)
	n.publish(session)
	return session, nil
}

func (n *Negotiator) newSession(uriParams URIParams, address gethcommon.Address) *Session {
	id := uriParams.Key
	if id == "" {
		id = uriParams.Topic
	}
	if id == "" {
		id = uuid.NewString()
	}

	name := uriParams.Name
	if name == "" {
		name = params.DefaultUnknownDAppName
	}

	chainID := uriParams.ChainID
	if chainID == 0 {
		chainID = n.defaultChainID
	}

	return &Session{
		ID:        id,
		Name:      name,
		URL:       uriParams.Bridge,
		Icon:      uriParams.Icon,
		ChainID:   chainID,
		Accounts:  []gethcommon.Address{address},
		Connected: true,
		CreatedAt: n.now().UnixMilli(),
	}
}

func (n *Negotiator) publish(session *Session) {
	if n.feed == nil {
		return
	}
	n.feed.Send(walletevent.Event{
		Type:      EventSessionConnected,
		SessionID: session.ID,
		Accounts:  session.Accounts,
		ChainID:   session.ChainID,
		At:        session.CreatedAt,
	})
}
