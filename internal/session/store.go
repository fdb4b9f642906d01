// Package session ties browser sessions to their server-side view
// controllers. Each session owns at most one instance of every view; no
// state is shared between sessions, and navigating a session to a different
// dealer or modal discards the previous detail instance.
package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealerdesk/internal/metrics"
	"dealerdesk/internal/models"
	"dealerdesk/internal/view"
)

// CookieName identifies the browser session.
const CookieName = "dealerdesk_session"

// Session holds one browser's view controllers. Views are created lazily on
// first access and fetch on creation; list views refetch on every page mount
// (nothing is served from a stale instance across navigations).
type Session struct {
	ID string

	mu       sync.Mutex
	lastSeen time.Time

	api      view.API
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	dealers      *view.PagedQuery[models.Dealer]
	modals       *view.PagedQuery[models.ProductModal]
	dealerDetail *view.DealerDetail
	modalDetail  *view.ModalDetail
}

// Dealers returns the dealers list view. remount refetches it, which page
// loads do: every view re-fetches on mount.
func (s *Session) Dealers(remount bool) *view.PagedQuery[models.Dealer] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dealers == nil {
		s.dealers = view.NewDealersView(s.ctx, s.api)
		s.dealers.Load()
		return s.dealers
	}
	if remount {
		s.dealers.Reload()
	}
	return s.dealers
}

// Modals returns the product-modals list view.
func (s *Session) Modals(remount bool) *view.PagedQuery[models.ProductModal] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modals == nil {
		s.modals = view.NewModalsView(s.ctx, s.api, s.debounce)
		s.modals.Load()
		return s.modals
	}
	if remount {
		s.modals.Reload()
	}
	return s.modals
}

// DealerDetail returns the detail view for the given dealer. Asking for a
// different dealer closes the previous instance; its in-flight fetches can
// no longer touch session state.
func (s *Session) DealerDetail(id int) *view.DealerDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dealerDetail != nil && s.dealerDetail.ID() == id {
		return s.dealerDetail
	}
	if s.dealerDetail != nil {
		s.dealerDetail.Close()
	}
	s.dealerDetail = view.NewDealerDetail(s.ctx, s.api, id)
	s.dealerDetail.Load()
	return s.dealerDetail
}

// ModalDetail returns the serials view for the given modal, replacing any
// previous modal's view.
func (s *Session) ModalDetail(id int) *view.ModalDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modalDetail != nil && s.modalDetail.ID() == id {
		return s.modalDetail
	}
	if s.modalDetail != nil {
		s.modalDetail.Close()
	}
	s.modalDetail = view.NewModalDetail(s.ctx, s.api, id)
	s.modalDetail.Serials.Load()
	return s.modalDetail
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastSeen) > ttl
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dealers != nil {
		s.dealers.Close()
	}
	if s.modals != nil {
		s.modals.Close()
	}
	if s.dealerDetail != nil {
		s.dealerDetail.Close()
	}
	if s.modalDetail != nil {
		s.modalDetail.Close()
	}
	s.cancel()
}

// Store keeps live sessions in memory and evicts the idle ones.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	api      view.API
	ttl      time.Duration
	debounce time.Duration
	done     chan struct{}
}

// NewStore builds the store and starts the eviction sweeper. debounce <= 0
// keeps the views' 500ms default.
func NewStore(api view.API, ttl time.Duration, debounce time.Duration) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		api:      api,
		ttl:      ttl,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go st.sweep()
	return st
}

// Get resolves the request's session, creating one (and setting the cookie)
// when the browser has none yet.
func (st *Store) Get(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		st.mu.RLock()
		s, ok := st.sessions[c.Value]
		st.mu.RUnlock()
		if ok {
			s.touch()
			return s
		}
	}
	return st.create(w)
}

func (st *Store) create(w http.ResponseWriter) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       uuid.NewString(),
		lastSeen: time.Now(),
		api:      st.api,
		debounce: st.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Stop halts the eviction sweeper and closes all sessions.
func (st *Store) Stop() {
	close(st.done)

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.close()
		delete(st.sessions, id)
	}
	metrics.ActiveSessions.Set(0)
}

func (st *Store) sweep() {
	interval := st.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-st.done:
			return
		case <-ticker.C:
			st.evictExpired()
		}
	}
}

func (st *Store) evictExpired() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.expired(st.ttl) {
			s.close()
			delete(st.sessions, id)
			log.Printf("[Session] evicted idle session %s", id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
}
