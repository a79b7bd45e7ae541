package weather

import (
	"context"
	"log"
	"sync"
	"time"
)

// Service orchestrates the cache check, the API client and the view state.
type Service struct {
	client   Client
	cache    CacheStore
	cacheKey string
	now      func() time.Time

	saveMu sync.Mutex

	mu        sync.Mutex
	seq       uint64
	state     State
	listeners []func(State)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for cache freshness.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCacheKey overrides the storage slot name.
func WithCacheKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.cacheKey = key
		}
	}
}

// NewService creates a new Service. cache may be nil, in which case every
// lookup goes to the network.
func NewService(client Client, cache CacheStore, opts ...Option) *Service {
	s := &Service{
		client:   client,
		cache:    cache,
		cacheKey: DefaultCacheKey,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the report for query, reusing the cached one when it is
// fresh and otherwise fetching it and overwriting the cache slot.
// It does not touch the view state.
func (s *Service) Lookup(ctx context.Context, query string) (Report, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return Report{}, ErrEmptyQuery
	}

	report, cached, err := s.load(ctx, q)
	if err != nil {
		return Report{}, err
	}
	if !cached {
		s.save(ctx, q, report, nil)
	}
	return report, nil
}

// Fetch runs one view cycle for query. Only the most recently started cycle
// may change the state; results of older cycles are dropped. The returned
// error is the cycle's own outcome, whether or not it was applied.
func (s *Service) Fetch(ctx context.Context, query string) error {
	q := NormalizeQuery(query)
	if q == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	s.seq++
	mine := s.seq
	s.state = State{Query: q, Loading: true}
	s.mu.Unlock()
	s.notify()

	report, cached, err := s.load(ctx, q)

	s.mu.Lock()
	if mine != s.seq {
		s.mu.Unlock()
		log.Printf("DEBUG: dropping stale result for %q", q)
		return err
	}
	s.state.Loading = false
	if err != nil {
		s.state.Error = FetchFailedMessage
		s.state.Report = nil
	} else {
		s.state.Report = &report
	}
	s.mu.Unlock()

	s.notify()

	if err != nil {
		log.Printf("ERROR: fetch failed for %q: %v", q, err)
	} else if !cached {
		s.save(ctx, q, report, func() bool { return s.current(mine) })
	}
	return err
}

func (s *Service) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}

// State returns the current view state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every state change.
func (s *Service) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify() {
	s.mu.Lock()
	st := s.state
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

// load returns a fresh cached report for q, or fetches one from the client.
func (s *Service) load(ctx context.Context, q string) (Report, bool, error) {
	if rec, ok := s.cached(ctx, q); ok {
		log.Printf("DEBUG: serving %q from cache", q)
		return rec.Data, true, nil
	}

	report, err := s.client.Fetch(ctx, q)
	if err != nil {
		return Report{}, false, err
	}
	return report, false, nil
}

func (s *Service) cached(ctx context.Context, q string) (CacheRecord, bool) {
	if s.cache == nil {
		return CacheRecord{}, false
	}

	raw, ok, err := s.cache.Get(ctx, s.cacheKey)
	if err != nil {
		log.Printf("ERROR: cache read failed: %v", err)
		return CacheRecord{}, false
	}
	if !ok {
		return CacheRecord{}, false
	}

	rec, err := DecodeCacheRecord(raw)
	if err != nil {
		log.Printf("ERROR: %v", err)
		return CacheRecord{}, false
	}
	if !rec.IsFresh(q, s.now()) {
		return CacheRecord{}, false
	}
	return rec, true
}

// save overwrites the cache slot with report. When keep is set, the write
// is skipped once keep reports false.
func (s *Service) save(ctx context.Context, q string, report Report, keep func() bool) {
	if s.cache == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if keep != nil && !keep() {
		return
	}

	payload, err := NewCacheRecord(q, report, s.now()).Encode()
	if err != nil {
		log.Printf("ERROR: encode cache record: %v", err)
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey, payload, 0); err != nil {
		log.Printf("ERROR: cache write failed: %v", err)
	}
}
