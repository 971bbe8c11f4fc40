package identity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionJSON(userID uuid.UUID, email string) map[string]any {
	return map[string]any{
		"access_token":  "access-token",
		"refresh_token": "refresh-token",
		"expires_in":    3600,
		"user": map[string]any{
			"id":                 userID.String(),
			"email":              email,
			"email_confirmed_at": "2026-01-01T00:00:00Z",
			"user_metadata": map[string]string{
				entity.MetadataName: "Asha",
				entity.MetadataRole: "seller",
			},
		},
	}
}

func TestHostedProviderAuthenticate(t *testing.T) {
	userID := uuid.New()

	var gotPath string
	var gotAPIKey string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.NoError(t, json.NewEncoder(w).Encode(sessionJSON(userID, "asha@farm.test")))
	}))
	defer server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	var events []service.SessionEvent
	unsubscribe := provider.OnSessionChange(func(event service.SessionEvent) {
		events = append(events, event)
	})
	defer unsubscribe()

	session, err := provider.Authenticate(context.Background(), "asha@farm.test", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "/token?grant_type=password", gotPath)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "asha@farm.test", gotBody["email"])
	assert.Equal(t, userID, session.ID)
	assert.True(t, session.EmailVerified)
	assert.Equal(t, "access-token", session.AccessToken)
	assert.Equal(t, entity.RoleSeller, session.MetadataRole())

	require.Len(t, events, 1)
	assert.Equal(t, service.SessionSignedIn, events[0].Type)
	assert.Equal(t, session, events[0].Session)
}

func TestHostedProviderAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid login credentials"})
	}))
	defer server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	emitted := false
	unsubscribe := provider.OnSessionChange(func(service.SessionEvent) { emitted = true })
	defer unsubscribe()

	_, err := provider.Authenticate(context.Background(), "asha@farm.test", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "invalid login credentials")
	assert.False(t, emitted)
}

func TestHostedProviderRegisterConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "user already registered"})
	}))
	defer server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	_, err := provider.Register(context.Background(), service.RegisterInput{
		Email:    "asha@farm.test",
		Password: "secret123",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
}

func TestHostedProviderRegisterSendsMetadata(t *testing.T) {
	userID := uuid.New()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.NoError(t, json.NewEncoder(w).Encode(sessionJSON(userID, "asha@farm.test")))
	}))
	defer server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	_, err := provider.Register(context.Background(), service.RegisterInput{
		Email:    "asha@farm.test",
		Password: "secret123",
		Metadata: map[string]string{
			entity.MetadataName: "Asha",
			entity.MetadataRole: "seller",
		},
	})

	require.NoError(t, err)
	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Asha", data[entity.MetadataName])
	assert.Equal(t, "seller", data[entity.MetadataRole])
}

func TestHostedProviderRefreshEmitsRefreshed(t *testing.T) {
	userID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "grant_type=refresh_token", r.URL.RawQuery)
		require.NoError(t, json.NewEncoder(w).Encode(sessionJSON(userID, "asha@farm.test")))
	}))
	defer server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	var events []service.SessionEvent
	unsubscribe := provider.OnSessionChange(func(event service.SessionEvent) {
		events = append(events, event)
	})
	defer unsubscribe()

	session, err := provider.Refresh(context.Background(), "old-refresh-token")

	require.NoError(t, err)
	assert.Equal(t, userID, session.ID)
	require.Len(t, events, 1)
	assert.Equal(t, service.SessionRefreshed, events[0].Type)
}

func TestHostedProviderInvalidateEmitsEvenOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	var events []service.SessionEvent
	unsubscribe := provider.OnSessionChange(func(event service.SessionEvent) {
		events = append(events, event)
	})
	defer unsubscribe()

	err := provider.Invalidate(context.Background(), "access-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNetwork)
	require.Len(t, events, 1)
	assert.Equal(t, service.SessionSignedOut, events[0].Type)
}

func TestHostedProviderTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	provider := NewHostedProvider(server.URL, "anon-key", testLogger())

	_, err := provider.Authenticate(context.Background(), "asha@farm.test", "secret123")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNetwork)
}
