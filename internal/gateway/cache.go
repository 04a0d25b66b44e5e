package gateway

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ReceiptCache keeps committed transaction details and entity details.
// Entries are evicted by recency only.
type ReceiptCache struct {
	// Key: intent hash hex
	details *lru.Cache[string, *CommittedDetails]

	// Key: entity address
	entities *lru.Cache[string, EntityDetails]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewReceiptCache creates a cache holding up to size entries of each kind.
func NewReceiptCache(size int) (*ReceiptCache, error) {
	if size <= 0 {
		size = 256
	}

	details, err := lru.New[string, *CommittedDetails](size)
	if err != nil {
		return nil, err
	}

	entities, err := lru.New[string, EntityDetails](size)
	if err != nil {
		return nil, err
	}

	return &ReceiptCache{details: details, entities: entities}, nil
}

// Details returns cached committed details for an intent hash.
func (c *ReceiptCache) Details(intentHash string) (*CommittedDetails, bool) {
	d, ok := c.details.Get(intentHash)
	c.record(ok)
	return d, ok
}

// PutDetails stores committed details. Details for transactions that are not
// committed are ignored.
func (c *ReceiptCache) PutDetails(intentHash string, d *CommittedDetails) {
	if d == nil || !d.Transaction.Status.IsCommitted() {
		return
	}
	c.details.Add(intentHash, d)
}

// Entity returns cached details for an entity address.
func (c *ReceiptCache) Entity(addr string) (EntityDetails, bool) {
	e, ok := c.entities.Get(addr)
	c.record(ok)
	return e, ok
}

// PutEntity stores entity details.
func (c *ReceiptCache) PutEntity(e EntityDetails) {
	c.entities.Add(e.Address, e)
}

// Stats returns cache hit and miss counts.
func (c *ReceiptCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ReceiptCache) record(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}
