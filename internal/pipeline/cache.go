package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"GasSentinel/internal/cache"
	"GasSentinel/internal/collector"
)

// CachedRunner memoises pipeline results keyed on the uploaded file content.
type CachedRunner struct {
	Pipeline *Pipeline
	TTL      time.Duration
	results  *cache.TTLCache[string, *Result]
}

// NewCachedRunner wraps p with a content-keyed cache.
func NewCachedRunner(p *Pipeline, ttl time.Duration) *CachedRunner {
	return &CachedRunner{
		Pipeline: p,
		TTL:      ttl,
		results:  cache.NewTTLCache[string, *Result](),
	}
}

// RunBytes analyses an in-memory upload, reusing the result of identical content.
func (c *CachedRunner) RunBytes(name string, data []byte) (*Result, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if res, ok := c.results.Get(key); ok {
		return res, nil
	}
	res, err := c.Pipeline.RunSource(&collector.ReaderSource{Label: name, Data: data})
	if err != nil {
		return nil, err
	}
	c.results.Set(key, res, c.TTL)
	return res, nil
}
