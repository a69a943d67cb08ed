package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"micropantry-api/internal/cache"
	"micropantry-api/internal/discovery"
	"micropantry-api/internal/logger"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/telemetry"
	"micropantry-api/internal/viewstate"
	"micropantry-api/pkg/uid"
)

const sessionKeyPrefix = "session:"

// session is the persisted form of one client's view.
type session struct {
	State   viewstate.State `json:"state"`
	History *telemetry.View `json:"history,omitempty"`
}

// SessionView is everything a client needs to render its current view.
type SessionView struct {
	ID      string              `json:"id"`
	State   viewstate.State     `json:"state"`
	List    *discovery.ListView `json:"list,omitempty"`
	Detail  *PantryDetail       `json:"detail,omitempty"`
	History *telemetry.View     `json:"history,omitempty"`
}

// SessionService keeps server-held view state per client.
type SessionService struct {
	cache   cache.Cache
	ttl     time.Duration
	catalog *CatalogService
	history *HistoryService
	log     zerolog.Logger

	// mu serializes read-modify-write cycles on session records.
	mu sync.Mutex
}

// NewSessionService creates a session service. Sessions expire after ttl of
// inactivity.
func NewSessionService(c cache.Cache, ttl time.Duration, catalog *CatalogService, history *HistoryService) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		cache:   c,
		ttl:     ttl,
		catalog: catalog,
		history: history,
		log:     logger.Component("session"),
	}
}

// Create starts a session with the initial state.
func (s *SessionService) Create(ctx context.Context) (*SessionView, error) {
	id := uid.New()
	if err := s.save(ctx, id, &session{State: viewstate.New()}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get renders the current view of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, id, sess)
}

// SetViewport moves the map.
func (s *SessionService) SetViewport(ctx context.Context, id string, b discovery.Bounds) (*SessionView, error) {
	if err := b.Validate(); err != nil {
		return nil, invalid("viewport", err.Error())
	}
	return s.apply(ctx, id, func(st viewstate.State) viewstate.State {
		return st.WithViewport(b)
	})
}

// SetControls changes the list filter and sort orders.
func (s *SessionService) SetControls(ctx context.Context, id string, c discovery.Controls) (*SessionView, error) {
	if err := c.Validate(); err != nil {
		return nil, invalid("controls", err.Error())
	}
	return s.apply(ctx, id, func(st viewstate.State) viewstate.State {
		return st.WithControls(c)
	})
}

// Select opens the detail view of a pantry.
func (s *SessionService) Select(ctx context.Context, id, pantryID string) (*SessionView, error) {
	if pantryID == "" {
		return nil, invalid("pantryId", "is required")
	}
	if _, err := s.catalog.Pantry(ctx, pantryID); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, func(st viewstate.State) viewstate.State {
		return st.Select(pantryID)
	})
}

// ClearSelection goes back to the list view.
func (s *SessionService) ClearSelection(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, viewstate.State.ClearSelection)
}

// CollapseHistory closes the history panel. A fetch still in flight will not
// commit afterwards.
func (s *SessionService) CollapseHistory(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, viewstate.State.CollapseHistory)
}

// ExpandHistory opens the history panel of the selected pantry and loads its
// readings. The fetch runs without holding the session lock; its result is
// dropped if the panel was collapsed or re-targeted in the meantime.
func (s *SessionService) ExpandHistory(ctx context.Context, id string) (*SessionView, error) {
	s.mu.Lock()
	sess, err := s.load(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	_, token, ok := sess.State.ExpandHistory()
	if !ok {
		s.mu.Unlock()
		return nil, invalid("selection", "no pantry selected")
	}
	sess.History = nil
	err = s.dispatch(ctx, id, sess, func(st viewstate.State) viewstate.State {
		next, _, _ := st.ExpandHistory()
		return next
	})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	view := s.history.View(ctx, token.PantryID)

	s.mu.Lock()
	sess, err = s.load(ctx, id)
	if err == nil {
		if sess.State.Accepts(token) {
			sess.History = &view
			err = s.save(ctx, id, sess)
		} else {
			s.log.Debug().Str("session_id", id).Uint64("generation", token.Generation).Msg("discarding stale history")
		}
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.render(ctx, id, sess)
}

// Delete ends a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}

func (s *SessionService) apply(ctx context.Context, id string, action viewstate.Action) (*SessionView, error) {
	s.mu.Lock()
	sess, err := s.load(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	err = s.dispatch(ctx, id, sess, action)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.render(ctx, id, sess)
}

// dispatch runs action through a view-state store whose subscriber persists
// each transition. Callers hold s.mu.
func (s *SessionService) dispatch(ctx context.Context, id string, sess *session, action viewstate.Action) error {
	store := viewstate.NewStore(sess.State)

	var saveErr error
	unsubscribe := store.Subscribe(func(st viewstate.State) {
		sess.State = st
		if !st.History.Open {
			sess.History = nil
		}
		saveErr = s.save(ctx, id, sess)
	})
	defer unsubscribe()

	next := store.Dispatch(action)
	s.log.Debug().
		Str("session_id", id).
		Str("selection", next.Selection).
		Bool("history_open", next.History.Open).
		Uint64("generation", next.History.Generation).
		Msg("view state changed")
	return saveErr
}

func (s *SessionService) render(ctx context.Context, id string, sess *session) (*SessionView, error) {
	view := &SessionView{ID: id, State: sess.State, History: sess.History}
	st := sess.State

	if st.ListActive() && st.Viewport != nil {
		list, err := s.catalog.Visible(ctx, *st.Viewport, st.Controls)
		if err != nil {
			return nil, err
		}
		view.List = &list
	}
	if st.Selection != "" {
		detail, err := s.catalog.Detail(ctx, st.Selection)
		if err != nil {
			return nil, err
		}
		view.Detail = detail
	}
	return view, nil
}

func (s *SessionService) load(ctx context.Context, id string) (*session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *SessionService) save(ctx context.Context, id string, sess *session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+id, data, s.ttl)
}
