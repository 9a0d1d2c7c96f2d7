package authstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/storage"
)

// initTimeout bounds initializing a Store, which outlives the request asking for it.
const initTimeout = 10 * time.Second

// A Manager keeps one initialized Store per application session.
//
// With an idle timeout set, Stores no request has asked for in that long are released.
type Manager struct {
	auth    *auth.Service
	idle    time.Duration
	logger  logger.Logger
	now     func() time.Time
	storage storage.Storage

	mu     sync.Mutex
	swept  time.Time
	stores map[string]*entry
}

type entry struct {
	once     sync.Once
	lastSeen time.Time
	store    *Store
}

// A ManagerOpt configures a *Manager.
type ManagerOpt func(*Manager)

// WithIdleTimeout releases Stores unused for longer than d.
// Set it to how long an application session lives without a visit.
func WithIdleTimeout(d time.Duration) ManagerOpt {
	return func(m *Manager) { m.idle = d }
}

// WithClock replaces the clock a *Manager measures idleness by.
func WithClock(now func() time.Time) ManagerOpt {
	return func(m *Manager) { m.now = now }
}

// NewManager constructs a *Manager.
func NewManager(svc *auth.Service, s storage.Storage, l logger.Logger, opts ...ManagerOpt) *Manager {
	if l == nil {
		l = logger.Noop{}
	}

	m := &Manager{auth: svc, logger: l, now: time.Now, storage: s, stores: make(map[string]*entry)}
	for _, opt := range opts {
		opt(m)
	}

	m.swept = m.now()
	return m
}

// Get returns the Store for sid.
// The first call for sid constructs the Store and initializes it;
// concurrent callers wait for that to finish.
//
// Initializing does not stop when ctx is canceled,
// so a request going away cannot leave the Store without a user it could have fetched.
func (m *Manager) Get(ctx context.Context, sid string) (*Store, error) {
	initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), initTimeout)
	defer cancel()

	m.mu.Lock()
	now := m.now()
	idle := m.evict(now)

	e, ok := m.stores[sid]
	if !ok {
		st, err := NewStore(initCtx, m.auth.Client(sid), m.storage, m.logger)
		if err != nil {
			m.mu.Unlock()
			closeAll(idle)
			return nil, err
		}

		e = &entry{store: st}
		m.stores[sid] = e
	}

	e.lastSeen = now
	m.mu.Unlock()

	closeAll(idle)
	e.once.Do(func() { e.store.Initialize(initCtx) })
	return e.store, nil
}

// Len counts the Stores in use.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.stores)
}

// Release closes and forgets the Store for sid.
// Its persisted user is kept.
func (m *Manager) Release(sid string) {
	m.mu.Lock()
	e, ok := m.stores[sid]
	delete(m.stores, sid)
	m.mu.Unlock()

	if ok {
		e.store.Close()
	}
}

// Forget releases the Store for sid and deletes its persisted user,
// for application sessions that will not be seen again.
func (m *Manager) Forget(ctx context.Context, sid string) error {
	m.Release(sid)

	if err := m.storage.Delete(ctx, key(sid)); err != nil {
		return fmt.Errorf("%w: could not delete auth state: %s", artmatch.ErrUnexpected, err)
	}

	return nil
}

// Close releases every Store.
func (m *Manager) Close() error {
	m.mu.Lock()
	stores := m.stores
	m.stores = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range stores {
		e.store.Close()
	}

	return nil
}

// evict removes the entries idle longer than m.idle, returning them to be closed.
// It looks at most once a minute, or once per m.idle if that is shorter.
// m.mu must be held.
func (m *Manager) evict(now time.Time) []*entry {
	if m.idle <= 0 || now.Sub(m.swept) < min(m.idle, time.Minute) {
		return nil
	}

	m.swept = now

	var idle []*entry
	for sid, e := range m.stores {
		if now.Sub(e.lastSeen) > m.idle {
			idle = append(idle, e)
			delete(m.stores, sid)
		}
	}

	if len(idle) > 0 {
		m.logger.Debug("released idle auth state stores", &logger.LogContext{
			Data: map[string]any{"count": len(idle)},
		})
	}

	return idle
}

func closeAll(entries []*entry) {
	for _, e := range entries {
		e.store.Close()
	}
}
