package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClient_SendText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123456/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", "123456", zap.NewNop())
	err := c.SendText(context.Background(), "233247877745", "Clocked in successfully.")

	assert.NoError(t, err)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "text", got["type"])
	assert.Equal(t, "233247877745", got["to"])
}

func TestClient_SendText_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", "123456", zap.NewNop())
	err := c.SendText(context.Background(), "233247877745", "hello")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_SendLocationRequest_FallsBackToText(t *testing.T) {
	var types []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		msgType, _ := payload["type"].(string)
		types = append(types, msgType)

		if msgType == "interactive" {
			http.Error(w, `{"error":"unsupported"}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "123456", zap.NewNop())
	err := c.SendLocationRequest(context.Background(), "233247877745", "Please share your location.")

	assert.NoError(t, err)
	assert.Equal(t, []string{"interactive", "text"}, types)
}
