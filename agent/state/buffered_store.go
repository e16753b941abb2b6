package state

import (
	"context"
	"strings"
	"sync"

	logx "github.com/tanpawarit/Chative-Voice-Desk/pkg/logger"
)

// BufferedStore holds a snapshot in process when the backing store rejects a
// save. Later loads of that session read the held snapshot, never the stale
// one, and the write is retried on each access until the backing store takes it.
//
// A held snapshot lives only in this process. It is lost on restart.
type BufferedStore struct {
	inner Store

	mu   sync.Mutex
	held map[string][]byte
}

var _ Store = (*BufferedStore)(nil)

func NewBufferedStore(inner Store) *BufferedStore {
	return &BufferedStore{inner: inner, held: make(map[string][]byte)}
}

func (b *BufferedStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	sessionID = strings.TrimSpace(sessionID)

	raw, ok := b.heldSnapshot(sessionID)
	if !ok {
		return b.inner.Load(ctx, sessionID)
	}

	st, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	b.retry(ctx, st)

	// Hand out a fresh copy so the caller cannot touch the held bytes.
	return decodeSnapshot(raw)
}

// Save writes through to the backing store. When that fails the snapshot is
// held and the failure is logged instead of returned.
func (b *BufferedStore) Save(ctx context.Context, st *SessionState) error {
	payload, err := encodeSnapshot(st)
	if err != nil {
		return err
	}
	sessionID := strings.TrimSpace(st.SessionID)

	saveErr := b.inner.Save(ctx, st)
	if saveErr == nil {
		b.release(sessionID)
		return nil
	}

	b.mu.Lock()
	b.held[sessionID] = payload
	b.mu.Unlock()

	logger := logx.For("state")
	logger.Error().
		Err(saveErr).
		Str("session_id", sessionID).
		Msg("session snapshot not saved, holding it in memory")
	return nil
}

func (b *BufferedStore) Delete(ctx context.Context, sessionID string) error {
	b.release(strings.TrimSpace(sessionID))
	return b.inner.Delete(ctx, sessionID)
}

// Held reports how many sessions are waiting for a successful save.
func (b *BufferedStore) Held() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.held)
}

func (b *BufferedStore) retry(ctx context.Context, st *SessionState) {
	if err := b.inner.Save(ctx, st); err != nil {
		logger := logx.For("state")
		logger.Warn().
			Err(err).
			Str("session_id", st.SessionID).
			Msg("held session snapshot still not saved")
		return
	}
	b.release(strings.TrimSpace(st.SessionID))
}

func (b *BufferedStore) heldSnapshot(sessionID string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.held[sessionID]
	return raw, ok
}

func (b *BufferedStore) release(sessionID string) {
	b.mu.Lock()
	delete(b.held, sessionID)
	b.mu.Unlock()
}
