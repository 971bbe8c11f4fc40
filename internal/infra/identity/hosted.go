package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// hostedProvider implements IdentityProvider against a hosted auth backend
// exposing the GoTrue-style REST endpoints (password grant, signup, refresh
// grant, logout).
type hostedProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	*listeners
}

// NewHostedProvider creates a provider talking to the hosted auth endpoint.
func NewHostedProvider(endpoint, apiKey string, logger *slog.Logger) service.IdentityProvider {
	return &hostedProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		listeners: newListeners(),
	}
}

// tokenResponse is the hosted backend's session payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID               string            `json:"id"`
		Email            string            `json:"email"`
		EmailConfirmedAt string            `json:"email_confirmed_at"`
		UserMetadata     map[string]string `json:"user_metadata"`
	} `json:"user"`
}

type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Msg       string `json:"msg"`
	Message   string `json:"message"`
}

func (p *hostedProvider) Authenticate(ctx context.Context, email, password string) (*entity.Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var out tokenResponse
	if err := p.post(ctx, "/token?grant_type=password", "", payload, &out); err != nil {
		return nil, mapAuthError(err)
	}

	session, err := p.toSession(&out)
	if err != nil {
		return nil, err
	}
	p.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: session})

	return session, nil
}

func (p *hostedProvider) Register(ctx context.Context, input service.RegisterInput) (*entity.Session, error) {
	payload := map[string]any{
		"email":    input.Email,
		"password": input.Password,
		"data":     input.Metadata,
	}

	var out tokenResponse
	if err := p.post(ctx, "/signup", "", payload, &out); err != nil {
		var httpErr *httpError
		if errors.As(err, &httpErr) && (httpErr.status == http.StatusConflict || httpErr.status == http.StatusUnprocessableEntity) {
			return nil, domainerrors.ErrRegistrationFailed.WrapMessage(httpErr.message)
		}

		return nil, mapAuthError(err)
	}

	session, err := p.toSession(&out)
	if err != nil {
		return nil, err
	}
	p.emit(service.SessionEvent{Type: service.SessionSignedIn, Session: session})

	return session, nil
}

func (p *hostedProvider) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	payload := map[string]string{"refresh_token": refreshToken}

	var out tokenResponse
	if err := p.post(ctx, "/token?grant_type=refresh_token", "", payload, &out); err != nil {
		return nil, mapAuthError(err)
	}

	session, err := p.toSession(&out)
	if err != nil {
		return nil, err
	}
	p.emit(service.SessionEvent{Type: service.SessionRefreshed, Session: session})

	return session, nil
}

// Invalidate revokes the session server-side. The signed-out event is emitted
// even when revocation fails; local state must never outlive a sign-out.
func (p *hostedProvider) Invalidate(ctx context.Context, accessToken string) error {
	err := p.post(ctx, "/logout", accessToken, struct{}{}, nil)
	p.emit(service.SessionEvent{Type: service.SessionSignedOut})
	if err != nil {
		return mapAuthError(err)
	}

	return nil
}

func (p *hostedProvider) OnSessionChange(fn func(service.SessionEvent)) func() {
	return p.add(fn)
}

// httpError carries the backend's status and message for error mapping.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string {
	return e.message
}

func (p *hostedProvider) post(ctx context.Context, path, bearer string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp errorResponse
		_ = json.Unmarshal(data, &errResp)
		message := errResp.Msg
		if message == "" {
			message = errResp.Message
		}
		if message == "" {
			message = resp.Status
		}
		p.logger.Debug("auth backend rejected request",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", message),
		)

		return &httpError{status: resp.StatusCode, message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode auth response")
	}

	return nil
}

func (p *hostedProvider) toSession(resp *tokenResponse) (*entity.Session, error) {
	id, err := uuid.Parse(resp.User.ID)
	if err != nil {
		return nil, errors.Wrap(err, "auth backend returned an invalid user id")
	}

	return &entity.Session{
		Principal: entity.Principal{
			ID:            id,
			Email:         resp.User.Email,
			EmailVerified: resp.User.EmailConfirmedAt != "",
			Metadata:      resp.User.UserMetadata,
		},
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// mapAuthError folds transport and HTTP failures into the domain taxonomy.
func mapAuthError(err error) error {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		switch httpErr.status {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return domainerrors.ErrInvalidCredentials.WrapMessage(httpErr.message)
		case http.StatusForbidden:
			return domainerrors.ErrForbidden.WrapMessage(httpErr.message)
		default:
			return domainerrors.ErrNetwork.WrapMessage(httpErr.message)
		}
	}

	return domainerrors.ErrNetwork.WrapMessage(err.Error())
}
