package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postPayload(t *testing.T, router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/123/abc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func contactPayload(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(webhook.NewPayload(model.ContactNotification{
		ContactID:   uuid.New(),
		Name:        "홍길동",
		Phone:       "010-1234-5678",
		Message:     "누수 점검",
		SubmittedAt: time.Now(),
	}, "site"))
	require.NoError(t, err)
	return b
}

func TestSink_ReceiveAndList(t *testing.T) {
	router := SetupRouter(NewSink(10, 0))

	w := postPayload(t, router, contactPayload(t))
	assert.Equal(t, http.StatusNoContent, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/received", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Received []Received `json:"received"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Received, 1)
	assert.Equal(t, "123", resp.Received[0].Channel)
	assert.Equal(t, "홍길동", resp.Received[0].Payload.Embeds[0].Fields[0].Value)
}

func TestSink_RejectsEmptyAndGarbage(t *testing.T) {
	router := SetupRouter(NewSink(10, 0))

	assert.Equal(t, http.StatusBadRequest, postPayload(t, router, []byte(`{"embeds":[]}`)).Code)
	assert.Equal(t, http.StatusBadRequest, postPayload(t, router, []byte(`nope`)).Code)
}

func TestSink_RateLimitsEveryNth(t *testing.T) {
	router := SetupRouter(NewSink(10, 2))

	assert.Equal(t, http.StatusNoContent, postPayload(t, router, contactPayload(t)).Code)
	w := postPayload(t, router, contactPayload(t))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestSink_KeepsMostRecent(t *testing.T) {
	sink := NewSink(2, 0)
	for i := 0; i < 3; i++ {
		sink.store(Received{ID: string(rune('a' + i))})
	}
	require.Len(t, sink.received, 2)
	assert.Equal(t, "b", sink.received[0].ID)
	assert.Equal(t, "c", sink.received[1].ID)
}
