package storage

// Store is the persistence collaborator for the tracker: a key-value store
// scoped per logical collection ("bankroll", "transactions", "bets",
// "thresholds"). Each collection persists independently; no transactional
// guarantee spans keys.
type Store interface {
	// Get returns the stored payload for a collection, or nil when the
	// collection has never been written.
	Get(collection string) ([]byte, error)
	// Set replaces the stored payload for a collection.
	Set(collection string, data []byte) error
	Close() error
}

// Collection keys used by the ledger.
const (
	CollectionBankroll     = "bankroll"
	CollectionTransactions = "transactions"
	CollectionBets         = "bets"
	CollectionThresholds   = "thresholds"
)
