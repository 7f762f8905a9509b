package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// sessionPointerKey is the credential-store key holding the persisted
// session pointer.
const sessionPointerKey = "active"

// sessionPointer is what survives a restart.
type sessionPointer struct {
	Address    string `json:"address"`
	Credential string `json:"credential"`
}

// SessionService implements ports.SessionManager.
type SessionService struct {
	gateway ports.LedgerConn
	sync    ports.StateSync
	store   ports.CredentialStore
	cfg     *config.Config
	log     zerolog.Logger

	mu      sync.RWMutex
	current *domain.Identity
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	gateway ports.LedgerConn,
	stateSync ports.StateSync,
	store ports.CredentialStore,
	cfg *config.Config,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		gateway: gateway,
		sync:    stateSync,
		store:   store,
		cfg:     cfg,
		log:     log,
	}
}

// Login resolves the credential to an identity, refreshes state, and
// persists the session pointer. Unknown addresses are admitted with the
// default Consumer role; this domain registers rather than rejects.
func (s *SessionService) Login(ctx context.Context, credential string) (*domain.Identity, string, error) {
	if credential == "" {
		return nil, "", apperror.ErrInvalidCredential()
	}

	if !s.gateway.EnsureConnected(ctx, s.cfg.Ledger.ConnectRetries, s.cfg.Ledger.RetryDelay) {
		return nil, "", apperror.ErrConnectFailed(s.cfg.Ledger.ConnectRetries, nil)
	}

	address := deriveAddress(credential)
	identity := s.resolve(address, credential)

	// The session is not ready until the first full refresh has landed.
	if _, err := s.sync.Refresh(ctx, address); err != nil {
		return nil, "", apperror.Classify(err)
	}

	ptr, _ := json.Marshal(sessionPointer{Address: address, Credential: credential})
	if err := s.store.Set(ctx, sessionPointerKey, string(ptr)); err != nil {
		// The in-memory session still works; only restart restore is lost.
		s.log.Warn().Err(err).Msg("failed to persist session pointer")
	}

	token, err := s.issueToken(address)
	if err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("issuing session token: %w", err))
	}

	s.mu.Lock()
	s.current = identity
	s.mu.Unlock()

	s.log.Info().
		Str("address", address).
		Str("role", string(identity.Role)).
		Msg("session established")
	return identity, token, nil
}

// Restore replays a persisted session pointer at startup. Missing or
// corrupt pointers are a no-op.
func (s *SessionService) Restore(ctx context.Context) (*domain.Identity, error) {
	raw, ok, err := s.store.Get(ctx, sessionPointerKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential store unavailable, starting without session")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	var ptr sessionPointer
	if err := json.Unmarshal([]byte(raw), &ptr); err != nil || ptr.Credential == "" ||
		deriveAddress(ptr.Credential) != ptr.Address {
		s.log.Warn().Msg("corrupt session pointer, discarding")
		_ = s.store.Remove(ctx, sessionPointerKey)
		return nil, nil
	}

	identity := s.resolve(ptr.Address, ptr.Credential)
	if s.gateway.EnsureConnected(ctx, s.cfg.Ledger.ConnectRetries, s.cfg.Ledger.RetryDelay) {
		if _, err := s.sync.Refresh(ctx, ptr.Address); err != nil {
			s.log.Warn().Err(err).Msg("initial refresh after restore failed")
		}
	}

	s.mu.Lock()
	s.current = identity
	s.mu.Unlock()

	s.log.Info().Str("address", ptr.Address).Msg("session restored")
	return identity, nil
}

// Logout clears persisted and in-memory state unconditionally, even when
// the disconnect fails.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.gateway.Close(); err != nil {
		s.log.Warn().Err(err).Msg("gateway close failed during logout")
	}
	if err := s.store.Remove(ctx, sessionPointerKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove session pointer")
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

// Current returns the active identity, nil when logged out.
func (s *SessionService) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// resolve looks the address up in the participant registry; unknown
// addresses default to Consumer.
func (s *SessionService) resolve(address, credential string) *domain.Identity {
	for _, p := range s.cfg.Participants {
		if p.Address == address {
			role := domain.RoleConsumer
			if p.Role == string(domain.RoleProducer) {
				role = domain.RoleProducer
			}
			return &domain.Identity{
				Address:     address,
				DisplayName: p.Name,
				Role:        role,
				Secret:      credential,
			}
		}
	}

	short := address
	if len(short) > 8 {
		short = short[:8]
	}
	return &domain.Identity{
		Address:     address,
		DisplayName: "Account " + short,
		Role:        domain.RoleConsumer,
		Secret:      credential,
	}
}

func (s *SessionService) issueToken(address string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   address,
		Issuer:    "energy-dex",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Session.TokenExpiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.Session.JWTSecret))
}

// ValidateToken checks a session token and returns the bound address.
func (s *SessionService) ValidateToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Session.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", apperror.ErrInvalidToken()
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperror.ErrInvalidToken()
	}
	return claims.Subject, nil
}
