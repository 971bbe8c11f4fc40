package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"farmferia/config"
	deliverycontext "farmferia/internal/delivery/context"
	"farmferia/internal/domain/constants"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// notificationsTable is the change-feed table carrying user-facing
// notifications produced by the Notifier.
const notificationsTable = "notifications"

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler turns change-feed push messages into device push notifications.
// Only notification events are dispatched; every other table is acknowledged
// without action so the subscription never backs up.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	profiles       repository.ProfileRepository
	sender         service.PushSender
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Profiles repository.ProfileRepository
	Sender   service.PushSender
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google signs push requests outside local development; the local
	// publisher sends plain HTTP.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		!params.Config.Env.Debug

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		profiles:       params.Profiles,
		sender:         params.Sender,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.ChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse change event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	if event.Table != notificationsTable {
		reqLogger.Debug("[Worker] Ignoring change event",
			slog.String("table", event.Table),
			slog.String("op", string(event.Op)),
		)

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Processing notification event",
		slog.String("user_id", event.RecordID),
	)

	if err := h.dispatchNotification(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to dispatch notification",
			slog.String("user_id", event.RecordID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, the event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.ChangeEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// dispatchNotification resolves the recipient's push token and sends the
// notification. Recipients without a registered token are acknowledged
// silently.
func (h *PushHandler) dispatchNotification(ctx context.Context, event *service.ChangeEvent) error {
	userID, err := uuid.Parse(event.RecordID)
	if err != nil {
		return errors.Wrap(err, "notification event carries no valid user id")
	}

	profile, err := h.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			h.logger.Debug("[Worker] No profile for notification recipient",
				slog.String("user_id", userID.String()),
			)

			return nil
		}

		return newRetryableError(err)
	}

	if profile.PushToken == nil || *profile.PushToken == "" {
		h.logger.Debug("[Worker] Recipient has no push token",
			slog.String("user_id", userID.String()),
		)

		return nil
	}

	title, body, data := notificationContent(event)

	_, failureCount, invalidTokens, err := h.sender.SendBatch(ctx, []string{*profile.PushToken}, title, body, data)
	if err != nil {
		return newRetryableError(err)
	}

	if len(invalidTokens) > 0 {
		h.cleanupInvalidToken(ctx, profile.ID)

		return nil
	}

	if failureCount > 0 {
		return newRetryableError(errors.New("push delivery failed"))
	}

	h.logger.Info("[Worker] Notification delivered",
		slog.String("user_id", userID.String()),
		slog.String("title", title),
	)

	return nil
}

// notificationContent splits the event payload into the push title, body and
// the structured data forwarded to the client.
func notificationContent(event *service.ChangeEvent) (title, body string, data map[string]string) {
	title = event.Payload["title"]
	if title == "" {
		title = "Farmferia"
	}
	body = event.Payload["message"]

	data = make(map[string]string, len(event.Payload))
	for key, value := range event.Payload {
		if key == "title" || key == "message" {
			continue
		}
		data[key] = value
	}

	return title, body, data
}

// cleanupInvalidToken clears a token the push provider reported as dead so
// later notifications skip the send entirely.
func (h *PushHandler) cleanupInvalidToken(ctx context.Context, userID uuid.UUID) {
	profile, err := h.profiles.FindByID(ctx, userID)
	if err != nil {
		h.logger.Warn("[Worker] Failed to load profile for token cleanup",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)

		return
	}

	profile.PushToken = nil
	if err := h.profiles.Update(ctx, profile); err != nil {
		h.logger.Warn("[Worker] Failed to clear invalid push token",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this push endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
