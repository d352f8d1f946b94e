package walletconnect

import (
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/log"
)

const uriScheme = "wc:"

// URIParams are the pairing parameters carried by a wc: connection URI.
// Any part that is absent is left at its zero value.
type URIParams struct {
	Topic   string
	Version string
	Bridge  string
	Key     string
	Name    string
	Icon    string
	ChainID uint64
}

// ParseURI reads a connection URI of the form
// wc:<topic>@<version>?bridge=<url>&key=<hex>[&name=..][&icon=..][&chainId=..].
// Malformed input never fails, it yields an empty or partial result.
func ParseURI(uri string) URIParams {
	if !strings.HasPrefix(uri, uriScheme) {
		return URIParams{}
	}

	path, rawQuery, _ := strings.Cut(uri[len(uriScheme):], "?")
	topic, version, _ := strings.Cut(path, "@")

	// ParseQuery keeps every pair it could decode even when it reports an error
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		log.Debug("walletconnect uri has a malformed query", "error", err)
	}

	params := URIParams{
		Topic:   topic,
		Version: version,
		Bridge:  query.Get("bridge"),
		Key:     query.Get("key"),
		Name:    query.Get("name"),
		Icon:    query.Get("icon"),
	}

	if chain := query.Get("chainId"); chain != "" {
		chainID, err := parseChainID(chain)
		if err != nil {
			log.Debug("walletconnect uri has an invalid chain id", "chainId", chain, "error", err)
		} else {
			params.ChainID = chainID
		}
	}

	return params
}
