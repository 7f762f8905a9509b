package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"energy-dex/config"
	"energy-dex/internal/core/domain"
	"energy-dex/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory ports.CredentialStore.
type fakeStore struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{m: make(map[string]string)}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *fakeStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func sessionFixture(t *testing.T, credential string) (*SessionService, *fakeLedger, *fakeStore, string) {
	t.Helper()
	address := deriveAddress(credential)

	f := newFakeLedger()
	stubAccountState(f, address)
	stubBook(f)

	cfg := testConfig()
	store := newFakeStore()
	stateSync := NewSyncService(f, nil, cfg, testLogger())
	return NewSessionService(f, stateSync, store, cfg, testLogger()), f, store, address
}

func TestLoginRejectsEmptyCredential(t *testing.T) {
	svc, f, _, _ := sessionFixture(t, "sSomeCredential")

	_, _, err := svc.Login(context.Background(), "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindAuth, appErr.Kind)
	assert.Zero(t, f.dialCount, "nothing is dialed for an empty credential")
}

func TestLoginEstablishesSession(t *testing.T) {
	svc, _, store, address := sessionFixture(t, "sSomeCredential")

	identity, token, err := svc.Login(context.Background(), "sSomeCredential")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, address, identity.Address)
	assert.Equal(t, domain.RoleConsumer, identity.Role, "unknown addresses are admitted as consumers")
	assert.NotEmpty(t, identity.DisplayName)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, address, subject)

	raw, ok, err := store.Get(context.Background(), "active")
	require.NoError(t, err)
	require.True(t, ok, "session pointer is persisted")
	var ptr sessionPointer
	require.NoError(t, json.Unmarshal([]byte(raw), &ptr))
	assert.Equal(t, address, ptr.Address)

	assert.Same(t, identity, svc.Current())
}

func TestLoginResolvesRegistryIdentity(t *testing.T) {
	svc, _, _, address := sessionFixture(t, "sProducerCred")
	svc.cfg.Participants = []config.Participant{
		{Address: address, Name: "Solar Farm Co", Role: "PRODUCER", Secret: "sProducerCred"},
	}

	identity, _, err := svc.Login(context.Background(), "sProducerCred")
	require.NoError(t, err)
	assert.Equal(t, "Solar Farm Co", identity.DisplayName)
	assert.Equal(t, domain.RoleProducer, identity.Role)
}

func TestLoginFailsWhenUnreachable(t *testing.T) {
	svc, f, store, _ := sessionFixture(t, "sSomeCredential")
	f.refuseConnect = true

	_, _, err := svc.Login(context.Background(), "sSomeCredential")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConnection, appErr.Kind)
	assert.Nil(t, svc.Current())
	_, ok, _ := store.Get(context.Background(), "active")
	assert.False(t, ok, "no pointer is persisted for a failed login")
}

func TestRestoreWithoutPointer(t *testing.T) {
	svc, _, _, _ := sessionFixture(t, "sSomeCredential")

	identity, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
	assert.Nil(t, svc.Current())
}

func TestRestoreDiscardsCorruptPointer(t *testing.T) {
	svc, _, store, _ := sessionFixture(t, "sSomeCredential")
	require.NoError(t, store.Set(context.Background(), "active", "not-json{{"))

	identity, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
	_, ok, _ := store.Get(context.Background(), "active")
	assert.False(t, ok, "corrupt pointers are removed")
}

func TestRestoreDiscardsMismatchedPointer(t *testing.T) {
	svc, _, store, _ := sessionFixture(t, "sSomeCredential")
	ptr, _ := json.Marshal(sessionPointer{Address: "rSomebodyElse", Credential: "sSomeCredential"})
	require.NoError(t, store.Set(context.Background(), "active", string(ptr)))

	identity, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity, "a pointer whose address does not match its credential is rejected")
}

func TestRestoreReplaysSession(t *testing.T) {
	svc, _, _, address := sessionFixture(t, "sSomeCredential")
	_, _, err := svc.Login(context.Background(), "sSomeCredential")
	require.NoError(t, err)

	// A fresh service sharing the store stands in for a restarted process.
	restarted := NewSessionService(svc.gateway, svc.sync, svc.store, svc.cfg, testLogger())
	identity, err := restarted.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, address, identity.Address)
	assert.Same(t, identity, restarted.Current())
}

func TestLogoutClearsEverything(t *testing.T) {
	svc, _, store, _ := sessionFixture(t, "sSomeCredential")
	_, _, err := svc.Login(context.Background(), "sSomeCredential")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Nil(t, svc.Current())
	_, ok, _ := store.Get(context.Background(), "active")
	assert.False(t, ok)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _, _ := sessionFixture(t, "sSomeCredential")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "AUTH_003", appErr.Code)
	}
}
