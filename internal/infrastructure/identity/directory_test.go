package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
)

func TestProviderDirectory_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/users/user_1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "user_1",
				"username": null,
				"first_name": "Alice",
				"last_name": null,
				"image_url": "https://img.example.com/a.png",
				"primary_email_address_id": "em_2",
				"email_addresses": [
					{"id": "em_1", "email_address": "old@example.com"},
					{"id": "em_2", "email_address": "alice@example.com"}
				]
			}`))
		case "/v1/users/user_500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := NewProviderDirectory(srv.URL+"/", "sk_test", time.Second)

	attrs, err := d.GetUser(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "", attrs.Username)
	assert.Equal(t, "Alice", attrs.FirstName)
	assert.Equal(t, "", attrs.LastName)
	assert.Equal(t, "alice@example.com", attrs.Email())
	assert.Equal(t, []string{"old@example.com", "alice@example.com"}, attrs.Emails)

	_, err = d.GetUser(context.Background(), "user_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = d.GetUser(context.Background(), "user_500")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestProviderDirectory_Unreachable(t *testing.T) {
	d := NewProviderDirectory("http://127.0.0.1:1", "sk_test", 200*time.Millisecond)
	_, err := d.GetUser(context.Background(), "user_1")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
