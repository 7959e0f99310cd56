package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/api/metrics"
	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

// SessionService owns the token lifecycle for every portal session: seed
// from the durable slot, verify against the gym API, login, logout, refresh.
// It is the sole writer of token/user state; everything else reads
// snapshots.
type SessionService struct {
	tokens   ports.TokenStore
	profiles ports.ProfileClient
	audit    ports.AuditRecorder
	log      zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// sessionState is the in-memory record for one portal session. The struct
// mutex is held for state transitions but released across network calls so
// concurrent requests can observe the loading flag.
type sessionState struct {
	mu          sync.Mutex
	token       string
	user        *domain.User
	authLoading bool
	initialized bool
	lastSeen    time.Time
}

func (st *sessionState) snapshot() domain.Snapshot {
	var u *domain.User
	if st.user != nil {
		clone := *st.user
		u = &clone
	}
	return domain.Snapshot{User: u, AuthLoading: st.authLoading}
}

// clear drops user and token together. Keeping the two transitions in one
// place is what guarantees a resolved user never outlives its token.
func (st *sessionState) clear() {
	st.token = ""
	st.user = nil
	st.authLoading = false
}

func NewSessionService(tokens ports.TokenStore, profiles ports.ProfileClient, audit ports.AuditRecorder, log zerolog.Logger) *SessionService {
	if audit == nil {
		audit = noopRecorder{}
	}
	return &SessionService{
		tokens:   tokens,
		profiles: profiles,
		audit:    audit,
		log:      log,
		sessions: make(map[string]*sessionState),
	}
}

type noopRecorder struct{}

func (noopRecorder) Enqueue(domain.AuditEvent) {}

// state returns the record for sessionID, creating it on first sight.
func (s *SessionService) state(sessionID string) *sessionState {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok = s.sessions[sessionID]; ok {
		return st
	}
	st = &sessionState{lastSeen: time.Now()}
	s.sessions[sessionID] = st
	metrics.ActiveSessions.Inc()
	return st
}

// Initialize seeds the session from the durable token slot and runs the one
// verification that is allowed to block the UI behind a loading veil.
// Every outcome resolves the loading flag; failures end anonymous, never
// retried.
func (s *SessionService) Initialize(ctx context.Context, sessionID string) domain.Snapshot {
	st := s.state(sessionID)

	st.mu.Lock()
	st.lastSeen = time.Now()
	if st.initialized {
		snap := st.snapshot()
		st.mu.Unlock()
		return snap
	}
	st.initialized = true

	token, err := s.tokens.Get(ctx, sessionID)
	if err != nil || token == "" {
		if err != nil && err != domain.ErrNoToken {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("token slot read failed")
		}
		st.clear()
		snap := st.snapshot()
		st.mu.Unlock()
		metrics.SessionVerificationsTotal.WithLabelValues("no_token").Inc()
		return snap
	}

	claims, cerr := DecodeClaims(token)
	if cerr != nil || claims.Expired(time.Now()) {
		// Structurally invalid or locally expired: clear without ever
		// calling the backend.
		st.clear()
		snap := st.snapshot()
		st.mu.Unlock()
		s.discardToken(ctx, sessionID)
		metrics.SessionVerificationsTotal.WithLabelValues("invalid_token").Inc()
		s.audit.Enqueue(domain.AuditEvent{
			Time: time.Now(), Type: domain.AuditVerifyFailed,
			SessionID: sessionID, Reason: "invalid or expired token",
		})
		return snap
	}

	st.token = token
	st.authLoading = true
	st.mu.Unlock()

	start := time.Now()
	user, verr := s.profiles.FetchProfile(ctx, token, claims.Role)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.token != token {
		// Logged out or re-logged-in while the fetch was in flight;
		// this response is stale.
		return st.snapshot()
	}
	if verr != nil {
		// Rejection and transient failure are deliberately conflated
		// here: the initial check must terminate in a definite answer.
		st.clear()
		s.discardToken(ctx, sessionID)
		metrics.SessionVerificationsTotal.WithLabelValues("rejected").Inc()
		metrics.VerificationDuration.WithLabelValues("rejected").Observe(time.Since(start).Seconds())
		s.log.Warn().Err(verr).Str("session_id", sessionID).Msg("session verification failed")
		s.audit.Enqueue(domain.AuditEvent{
			Time: time.Now(), Type: domain.AuditVerifyFailed,
			SessionID: sessionID, UserID: claims.SubjectID, Role: claims.Role,
			Reason: verr.Error(),
		})
		return st.snapshot()
	}

	st.user = user
	st.authLoading = false
	metrics.SessionVerificationsTotal.WithLabelValues("verified").Inc()
	metrics.VerificationDuration.WithLabelValues("verified").Observe(time.Since(start).Seconds())
	s.audit.Enqueue(domain.AuditEvent{
		Time: time.Now(), Type: domain.AuditVerified,
		SessionID: sessionID, UserID: user.ID, Role: user.Role,
	})
	return st.snapshot()
}

// Login persists a fresh token and verifies it. The loading flag stays
// untouched so screens already rendered do not flicker back to a veil. A
// transient profile failure keeps the locally decoded basic identity; only
// an explicit upstream rejection tears the session down.
func (s *SessionService) Login(ctx context.Context, sessionID, token string) (domain.Snapshot, error) {
	if token == "" {
		return domain.Snapshot{}, domain.ErrEmptyToken
	}

	st := s.state(sessionID)

	st.mu.Lock()
	st.lastSeen = time.Now()
	st.initialized = true

	claims, cerr := DecodeClaims(token)
	if cerr != nil {
		st.clear()
		st.mu.Unlock()
		s.discardToken(ctx, sessionID)
		metrics.LoginsTotal.WithLabelValues("invalid_token").Inc()
		return domain.Snapshot{}, cerr
	}

	if err := s.tokens.Put(ctx, sessionID, token); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("token slot write failed")
	}
	st.token = token
	st.user = &domain.User{ID: claims.SubjectID, Role: claims.Role}
	// Login takes over the session from here; if an initial verification is
	// still in flight its response will be discarded as stale, so the
	// loading flag must be resolved now rather than by that fetch.
	st.authLoading = false
	st.mu.Unlock()

	user, verr := s.profiles.FetchProfile(ctx, token, claims.Role)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.token != token {
		return st.snapshot(), nil
	}
	switch {
	case verr == nil:
		st.user = user
		metrics.LoginsTotal.WithLabelValues("verified").Inc()
		s.audit.Enqueue(domain.AuditEvent{
			Time: time.Now(), Type: domain.AuditLogin,
			SessionID: sessionID, UserID: user.ID, Role: user.Role,
		})
	case domain.IsUnauthorized(verr):
		st.clear()
		s.discardToken(ctx, sessionID)
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		s.audit.Enqueue(domain.AuditEvent{
			Time: time.Now(), Type: domain.AuditVerifyFailed,
			SessionID: sessionID, UserID: claims.SubjectID, Role: claims.Role,
			Reason: verr.Error(),
		})
	default:
		// Transport or server failure: keep the basic identity decoded
		// from the token rather than logging the member out.
		metrics.LoginsTotal.WithLabelValues("degraded").Inc()
		s.log.Warn().Err(verr).Str("session_id", sessionID).Msg("post-login profile fetch failed")
	}
	return st.snapshot(), nil
}

// Logout clears memory and the durable slot together, synchronously. A slot
// delete failure is logged but the in-memory state is cleared regardless.
func (s *SessionService) Logout(ctx context.Context, sessionID string) {
	st := s.state(sessionID)

	st.mu.Lock()
	st.lastSeen = time.Now()
	st.initialized = true
	userID, role := "", ""
	if st.user != nil {
		userID, role = st.user.ID, st.user.Role
	}
	st.clear()
	st.mu.Unlock()

	s.discardToken(ctx, sessionID)
	metrics.LogoutsTotal.Inc()
	s.audit.Enqueue(domain.AuditEvent{
		Time: time.Now(), Type: domain.AuditLogout,
		SessionID: sessionID, UserID: userID, Role: role,
	})
}

// Refresh re-fetches the profile after a consumer mutated it (spent a
// credit, changed plan). The loading flag is never toggled and a flaky
// network never deauthenticates: only an explicit 401/403 clears state.
// Overlapping calls are not deduplicated; the last resolved response wins.
func (s *SessionService) Refresh(ctx context.Context, sessionID string) domain.Snapshot {
	st := s.state(sessionID)

	st.mu.Lock()
	st.lastSeen = time.Now()
	token := st.token
	roleHint := ""
	if st.user != nil {
		roleHint = st.user.Role
	}
	if token == "" {
		snap := st.snapshot()
		st.mu.Unlock()
		return snap
	}
	st.mu.Unlock()

	user, verr := s.profiles.FetchProfile(ctx, token, roleHint)

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.token != token {
		return st.snapshot()
	}
	switch {
	case verr == nil:
		st.user = user
		metrics.RefreshesTotal.WithLabelValues("refreshed").Inc()
		s.audit.Enqueue(domain.AuditEvent{
			Time: time.Now(), Type: domain.AuditRefresh,
			SessionID: sessionID, UserID: user.ID, Role: user.Role,
		})
	case domain.IsUnauthorized(verr):
		st.clear()
		s.discardToken(ctx, sessionID)
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		s.audit.Enqueue(domain.AuditEvent{
			Time: time.Now(), Type: domain.AuditRefreshFailed,
			SessionID: sessionID, Reason: verr.Error(),
		})
	default:
		metrics.RefreshesTotal.WithLabelValues("degraded").Inc()
		s.log.Debug().Err(verr).Str("session_id", sessionID).Msg("refresh failed, keeping session")
	}
	return st.snapshot()
}

// Snapshot returns the current view without triggering any I/O.
func (s *SessionService) Snapshot(sessionID string) domain.Snapshot {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.Snapshot{}
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot()
}

// PruneIdle evicts in-memory records untouched for longer than idleFor.
// The durable slot is left alone; a returning browser re-initializes from
// it. Returns the number of records evicted.
func (s *SessionService) PruneIdle(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, st := range s.sessions {
		st.mu.Lock()
		stale := st.lastSeen.Before(cutoff) && !st.authLoading
		st.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			evicted++
		}
	}
	metrics.ActiveSessions.Sub(float64(evicted))
	return evicted
}

func (s *SessionService) discardToken(ctx context.Context, sessionID string) {
	if err := s.tokens.Delete(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("token slot delete failed")
	}
}
