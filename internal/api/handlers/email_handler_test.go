package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riii-services/backend/internal/api/handlers"
	"github.com/riii-services/backend/internal/application/services"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

type stubNotifier struct {
	recipients []string
	err        error
}

func (s *stubNotifier) Send(recipient string) error {
	s.recipients = append(s.recipients, recipient)
	return s.err
}

type stubEmailService struct {
	configured bool
	notifier   *stubNotifier
}

func (s *stubEmailService) Status() *services.EmailStatus {
	return &services.EmailStatus{EmailConfigured: s.configured, APIKeyPresent: s.configured}
}

func (s *stubEmailService) TestEmail(ctx context.Context, recipient string) error {
	if !s.configured {
		return apperrors.NewNotConfiguredError(services.TestEmailKeyMissing)
	}
	return s.notifier.Send(recipient)
}

func TestEmailHandler_Status(t *testing.T) {
	handler := handlers.NewEmailHandler(&stubEmailService{configured: true})

	w := httptest.NewRecorder()
	handler.Status(w, httptest.NewRequest(http.MethodGet, "/api/email-status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["emailConfigured"])
	assert.Contains(t, body, "instructions")
}

func TestEmailHandler_TestEmail(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		notifier := &stubNotifier{}
		handler := handlers.NewEmailHandler(&stubEmailService{configured: true, notifier: notifier})

		req := httptest.NewRequest(http.MethodPost, "/api/test-email", strings.NewReader(`{"email":"ops@x.com"}`))
		w := httptest.NewRecorder()
		handler.TestEmail(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Test email sent successfully","apiKeyPresent":true}`, w.Body.String())
		assert.Equal(t, []string{"ops@x.com"}, notifier.recipients)
	})

	t.Run("no body", func(t *testing.T) {
		notifier := &stubNotifier{}
		handler := handlers.NewEmailHandler(&stubEmailService{configured: true, notifier: notifier})

		w := httptest.NewRecorder()
		handler.TestEmail(w, httptest.NewRequest(http.MethodPost, "/api/test-email", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{""}, notifier.recipients)
	})

	t.Run("not configured is 400", func(t *testing.T) {
		handler := handlers.NewEmailHandler(&stubEmailService{})

		w := httptest.NewRecorder()
		handler.TestEmail(w, httptest.NewRequest(http.MethodPost, "/api/test-email", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, services.TestEmailKeyMissing, body["error"])
	})

	t.Run("provider failure is 500", func(t *testing.T) {
		notifier := &stubNotifier{err: apperrors.NewExternalError("Failed to send email: Invalid to field", errors.New("422"))}
		handler := handlers.NewEmailHandler(&stubEmailService{configured: true, notifier: notifier})

		w := httptest.NewRecorder()
		handler.TestEmail(w, httptest.NewRequest(http.MethodPost, "/api/test-email", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send email: Invalid to field", decodeError(t, w))
	})
}

func TestUploadHandler_Upload(t *testing.T) {
	newRequest := func(t *testing.T, withFile bool) *http.Request {
		t.Helper()
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("folder", "services"))
		if withFile {
			part, err := writer.CreateFormFile("file", "photo.jpg")
			require.NoError(t, err)
			_, err = part.Write([]byte("jpeg-bytes"))
			require.NoError(t, err)
		}
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	t.Run("stores the file", func(t *testing.T) {
		storage := &memoryStorage{}
		handler := handlers.NewUploadHandler(services.NewUploadService(storage))

		w := httptest.NewRecorder()
		handler.Upload(w, newRequest(t, true))

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, strings.HasPrefix(body["path"], "services/"))
		assert.True(t, strings.HasSuffix(body["path"], "-photo.jpg"))
		assert.Equal(t, "https://cdn.test/"+body["path"], body["url"])
		assert.Equal(t, "jpeg-bytes", storage.bodies[body["path"]])
	})

	t.Run("missing file", func(t *testing.T) {
		handler := handlers.NewUploadHandler(services.NewUploadService(&memoryStorage{}))

		w := httptest.NewRecorder()
		handler.Upload(w, newRequest(t, false))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing or invalid file", decodeError(t, w))
	})

	t.Run("storage not configured", func(t *testing.T) {
		handler := handlers.NewUploadHandler(services.NewUploadService(nil))

		w := httptest.NewRecorder()
		handler.Upload(w, newRequest(t, true))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "File storage not configured", decodeError(t, w))
	})
}
