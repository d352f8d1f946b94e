package params

const (
	// DefaultChainID is the network a session is bound to when the peer does not announce one.
	DefaultChainID = 1

	// DefaultSessionsKey is the key-value store key holding the serialized session set.
	DefaultSessionsKey = "walletconnect.sessions"

	// DefaultDatabaseName is the name of the leveldb/sqlite database inside DataDir.
	DefaultDatabaseName = "walletconnect"

	// DefaultSigningTimeout is how long, in seconds, a signing backend may take before the request fails.
	DefaultSigningTimeout = 300

	// DefaultDedupeWindow is how long, in seconds, a (session, request id) pair is remembered.
	DefaultDedupeWindow = 600

	// DefaultUnknownDAppName is the display name given to peers that do not announce one.
	DefaultUnknownDAppName = "Unknown DApp"
)

// Storage backends supported by the session store.
const (
	StorageBackendLevelDB = "leveldb"
	StorageBackendSQLite  = "sqlite"
	StorageBackendMemory  = "memory"
)

// RPC method names handled by the wallet.
const (
	// PersonalSignMethodName defines the name for `personal.sign` API.
	PersonalSignMethodName = "personal_sign"

	// EthSignMethodName defines the name for the legacy `eth_sign` API.
	EthSignMethodName = "eth_sign"

	// SignTypedDataMethodName defines the name for the `eth_signTypedData` API.
	SignTypedDataMethodName = "eth_signTypedData"

	// SignTypedDataV3MethodName defines the name for the `eth_signTypedData_v3` API.
	SignTypedDataV3MethodName = "eth_signTypedData_v3"

	// SignTypedDataV4MethodName defines the name for the `eth_signTypedData_v4` API.
	SignTypedDataV4MethodName = "eth_signTypedData_v4"

	// SendTransactionMethodName defines the name for a giving transaction.
	SendTransactionMethodName = "eth_sendTransaction"

	// SignTransactionMethodName defines the name for signing a transaction without sending it.
	SignTransactionMethodName = "eth_signTransaction"
)
