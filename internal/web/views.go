package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

// SessionCookie names the cookie identifying a browser session.
const SessionCookie = "trek_session"

const (
	DefaultViewTTL  = 12 * time.Hour
	DefaultMaxViews = 10000
)

// View is one loaded preference page: its dispatcher and output region.
type View struct {
	SessionID  string
	LoadedAt   time.Time
	Dispatcher *itinerary.Dispatcher
	Region     *itinerary.Region

	lastSeen time.Time
}

// ViewStore keeps the latest view of each session. Views idle for longer
// than ttl are dropped, and the least recently seen view is evicted once
// the store holds maxViews views.
type ViewStore struct {
	mu       sync.Mutex
	views    map[string]*View
	ttl      time.Duration
	maxViews int
	now      func() time.Time
}

func NewViewStore(ttl time.Duration, maxViews int) *ViewStore {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	if maxViews <= 0 {
		maxViews = DefaultMaxViews
	}
	return &ViewStore{
		views:    make(map[string]*View),
		ttl:      ttl,
		maxViews: maxViews,
		now:      time.Now,
	}
}

func newSessionID() string {
	return uuid.NewString()
}

// Load records a fresh page load for sessionID, replacing any earlier view.
func (s *ViewStore) Load(sessionID string, session itinerary.SessionReader, gen itinerary.Generator, opts itinerary.Options) *View {
	region := itinerary.NewRegion()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	v := &View{
		SessionID:  sessionID,
		LoadedAt:   now.UTC(),
		Dispatcher: itinerary.NewDispatcher(session, gen, region, opts),
		Region:     region,
		lastSeen:   now,
	}
	delete(s.views, sessionID)
	s.sweepLocked(now)
	for len(s.views) >= s.maxViews {
		s.evictOldestLocked()
	}
	s.views[sessionID] = v
	return v
}

// Get returns the session's view, or nil when it is unknown or expired.
func (s *ViewStore) Get(sessionID string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.views[sessionID]
	if v == nil {
		return nil
	}
	now := s.now()
	if now.Sub(v.lastSeen) > s.ttl {
		delete(s.views, sessionID)
		return nil
	}
	v.lastSeen = now
	return v
}

func (s *ViewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *ViewStore) sweepLocked(now time.Time) {
	for id, v := range s.views {
		if now.Sub(v.lastSeen) > s.ttl {
			delete(s.views, id)
		}
	}
}

func (s *ViewStore) evictOldestLocked() {
	var oldest *View
	for _, v := range s.views {
		if oldest == nil || v.lastSeen.Before(oldest.lastSeen) {
			oldest = v
		}
	}
	if oldest != nil {
		delete(s.views, oldest.SessionID)
	}
}
