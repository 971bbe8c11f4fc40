package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmferia/internal/domain/entity"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"
	mockRepo "farmferia/internal/mocks/repository"
	mockSvc "farmferia/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pushFixture struct {
	handler  *PushHandler
	profiles *mockRepo.MockProfileRepository
	sender   *mockSvc.MockPushSender
}

func newPushFixture(t *testing.T) *pushFixture {
	f := &pushFixture{
		profiles: mockRepo.NewMockProfileRepository(t),
		sender:   mockSvc.NewMockPushSender(t),
	}
	f.handler = &PushHandler{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		profiles: f.profiles,
		sender:   f.sender,
	}

	return f
}

func pushRequest(t *testing.T, event service.ChangeEvent) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = event.RecordID
	msg.Subscription = "projects/local/subscriptions/change-feed-sub"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func notificationEvent(userID uuid.UUID) service.ChangeEvent {
	return service.ChangeEvent{
		Table:    "notifications",
		Op:       service.ChangeInsert,
		RecordID: userID.String(),
		Payload: map[string]string{
			"severity": "info",
			"title":    "Order shipped",
			"message":  "Your tomatoes are on the way",
			"order_id": uuid.New().String(),
		},
	}
}

func TestPushHandler_DeliversNotification(t *testing.T) {
	f := newPushFixture(t)
	userID := uuid.New()
	token := "device-token-1"
	profile := &entity.Profile{ID: userID, Role: entity.RoleBuyer, PushToken: &token}

	f.profiles.On("FindByID", mock.Anything, userID).Return(profile, nil)
	f.sender.On("SendBatch", mock.Anything, []string{token}, "Order shipped", "Your tomatoes are on the way", mock.MatchedBy(func(data map[string]string) bool {
		// Title and message move into the push body; the rest rides along as data.
		_, hasTitle := data["title"]

		return !hasTitle && data["severity"] == "info" && data["order_id"] != ""
	})).Return(1, 0, nil, nil)

	c, rec := pushRequest(t, notificationEvent(userID))
	require.NoError(t, f.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_IgnoresOtherTables(t *testing.T) {
	f := newPushFixture(t)

	c, rec := pushRequest(t, service.ChangeEvent{
		Table:    "orders",
		Op:       service.ChangeUpdate,
		RecordID: uuid.New().String(),
	})
	require.NoError(t, f.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_AcksMissingProfile(t *testing.T) {
	f := newPushFixture(t)
	userID := uuid.New()

	f.profiles.On("FindByID", mock.Anything, userID).Return(nil, repository.ErrProfileNotFound)

	c, rec := pushRequest(t, notificationEvent(userID))
	require.NoError(t, f.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_AcksRecipientWithoutToken(t *testing.T) {
	f := newPushFixture(t)
	userID := uuid.New()

	f.profiles.On("FindByID", mock.Anything, userID).Return(&entity.Profile{ID: userID}, nil)

	c, rec := pushRequest(t, notificationEvent(userID))
	require.NoError(t, f.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_RetriesOnRepositoryFailure(t *testing.T) {
	f := newPushFixture(t)
	userID := uuid.New()

	f.profiles.On("FindByID", mock.Anything, userID).Return(nil, assert.AnError)

	c, rec := pushRequest(t, notificationEvent(userID))
	require.NoError(t, f.handler.HandlePush(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPushHandler_ClearsInvalidToken(t *testing.T) {
	f := newPushFixture(t)
	userID := uuid.New()
	token := "dead-token"
	profile := &entity.Profile{ID: userID, PushToken: &token}

	f.profiles.On("FindByID", mock.Anything, userID).Return(profile, nil)
	f.sender.On("SendBatch", mock.Anything, []string{token}, mock.Anything, mock.Anything, mock.Anything).
		Return(0, 1, []string{token}, nil)
	f.profiles.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.ID == userID && p.PushToken == nil
	})).Return(nil)

	c, rec := pushRequest(t, notificationEvent(userID))
	require.NoError(t, f.handler.HandlePush(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_RejectsBadPayload(t *testing.T) {
	f := newPushFixture(t)

	var msg PubSubMessage
	msg.Message.Data = "not-base64!!!"
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, f.handler.HandlePush(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
