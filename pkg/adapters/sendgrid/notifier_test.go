package sendgrid_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/pkg/adapters/sendgrid"
	"github.com/aretw0/hexa/pkg/core"
)

func TestNotify(t *testing.T) {
	var got sendgrid.Mail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := sendgrid.New(sendgrid.Config{Endpoint: srv.URL, APIKey: "SG.key", From: "shop@example.com", To: "bob@example.com"})
	order := core.Order{ID: 3, Items: []core.LineItem{{Name: "Rust Book", Price: 4999}}, Total: 4999}

	require.NoError(t, n.Notify(context.Background(), order))
	assert.Equal(t, "Order #3 confirmed", got.Subject)
	assert.Equal(t, "shop@example.com", got.From.Email)
	require.Len(t, got.Content, 1)
	assert.Contains(t, got.Content[0].Value, "Rust Book")
	assert.Contains(t, got.Content[0].Value, "Total: $49.99")
}

func TestNotify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"message":"forbidden"}]}`))
	}))
	defer srv.Close()

	n := sendgrid.New(sendgrid.Config{Endpoint: srv.URL})
	svc := core.NewService(core.WithNotifier(n))

	_, err := svc.ProcessOrder(context.Background(), 10)
	require.ErrorIs(t, err, core.ErrNotificationFailed)
	assert.Contains(t, err.Error(), "403")
}
