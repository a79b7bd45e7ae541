package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// FreshnessWindow is how long a cached report may be reused.
	FreshnessWindow = 30 * time.Minute
	// DefaultCacheKey is the single storage slot holding the last report.
	DefaultCacheKey = "weatherCache"
)

// CacheRecord is the persisted form of the last successful fetch.
type CacheRecord struct {
	Data      Report `json:"data"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Location  string `json:"location"`
}

// NewCacheRecord captures report as fetched for query at now.
func NewCacheRecord(query string, report Report, now time.Time) CacheRecord {
	return CacheRecord{
		Data:      report,
		Timestamp: now.UnixMilli(),
		Location:  query,
	}
}

// IsFresh reports whether the record may be reused for query at now.
// The query comparison is exact and case-sensitive.
func (r CacheRecord) IsFresh(query string, now time.Time) bool {
	if r.Location != query {
		return false
	}
	age := now.Sub(time.UnixMilli(r.Timestamp))
	return age < FreshnessWindow
}

// Encode returns the JSON form stored in the cache slot.
func (r CacheRecord) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeCacheRecord parses a stored record.
func DecodeCacheRecord(b []byte) (CacheRecord, error) {
	var r CacheRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return CacheRecord{}, fmt.Errorf("decode cache record: %w", err)
	}
	return r, nil
}
