package store

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/dgallion1/resumemd/internal/parser"
	"github.com/dgallion1/resumemd/internal/resume"
	"github.com/dgallion1/resumemd/internal/source"
)

// ErrNotLoaded is returned by accessors that need a loaded résumé.
var ErrNotLoaded = errors.New("resume not loaded")

// Snapshot is a read-only copy of the store state.
type Snapshot struct {
	Loaded    bool            `json:"loaded"`
	Document  resume.Document `json:"document"`
	Raw       string          `json:"-"`
	Hash      string          `json:"hash,omitempty"`
	LoadedAt  time.Time       `json:"loaded_at,omitzero"`
	LastError string          `json:"last_error,omitempty"`
}

// Store holds the most recently loaded résumé. A failed load leaves the
// previous state in place; before the first success the store is unloaded
// and serves an empty document.
type Store struct {
	fetcher  source.Fetcher
	attempts int
	wait     func(int) time.Duration
	log      *slog.Logger
	stats    *LoadStats

	mu   sync.RWMutex
	snap Snapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithRetries sets how many fetch attempts a load makes.
func WithRetries(n int) Option {
	return func(s *Store) { s.attempts = n }
}

// WithBackoff overrides the sleep schedule between retries.
func WithBackoff(wait func(int) time.Duration) Option {
	return func(s *Store) { s.wait = wait }
}

// WithStats records load latencies into stats.
func WithStats(stats *LoadStats) Option {
	return func(s *Store) { s.stats = stats }
}

func New(fetcher source.Fetcher, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		fetcher:  fetcher,
		attempts: source.MaxRetries,
		log:      log,
		stats:    NewLoadStats(time.Hour),
		snap:     Snapshot{Document: parser.Parse("")},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and parses the résumé. It reports whether the load succeeded.
func (s *Store) Load(ctx context.Context) bool {
	start := time.Now()
	raw, err := source.FetchWithRetry(ctx, s.fetcher, s.attempts, s.wait)
	s.stats.Record(time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		s.log.Error("failed to load resume", "error", err)
		s.mu.Lock()
		s.snap.LastError = err.Error()
		s.mu.Unlock()
		return false
	}

	doc := parser.Parse(raw)
	hash := ContentHash(raw)

	s.mu.Lock()
	changed := s.snap.Hash != hash
	s.snap = Snapshot{
		Loaded:   true,
		Document: doc,
		Raw:      raw,
		Hash:     hash,
		LoadedAt: time.Now(),
	}
	s.mu.Unlock()

	s.log.Info("resume loaded",
		"sections", len(doc.Sections),
		"items", doc.ItemCount(),
		"hash", hash[:16],
		"changed", changed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return true
}

// Snapshot returns a copy of the current state. Documents are never
// mutated after parsing, so sharing their slices is safe.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Document returns the loaded document or ErrNotLoaded.
func (s *Store) Document() (resume.Document, error) {
	snap := s.Snapshot()
	if !snap.Loaded {
		return snap.Document, ErrNotLoaded
	}
	return snap.Document, nil
}

// Stats returns the store's load latency tracker.
func (s *Store) Stats() *LoadStats {
	return s.stats
}

// Start loads once and then reloads every interval until Stop or ctx ends.
// A non-positive interval only performs the initial load.
func (s *Store) Start(ctx context.Context, interval time.Duration) {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.Load(runCtx)
	if interval <= 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.Load(runCtx)
			}
		}
	}()
}

// Stop ends the reload loop and waits for it to exit.
func (s *Store) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ContentHash returns the hex BLAKE3 digest of raw résumé text.
func ContentHash(raw string) string {
	sum := blake3.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
