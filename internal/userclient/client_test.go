package userclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/errs"
)

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/u1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u1","name":"Alice","email":"alice@example.com"}`))
		case "/api/users/u2":
			_, _ = w.Write([]byte(`{"name":"Bob"}`))
		case "/api/users/boom":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, nil)

	t.Run("found", func(t *testing.T) {
		p, err := c.GetUser(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", p.Name)
		assert.Equal(t, "alice@example.com", p.Email)
	})

	t.Run("id defaults to requested", func(t *testing.T) {
		p, err := c.GetUser(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, "u2", p.ID)
		assert.Empty(t, p.Email)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.GetUser(context.Background(), "nobody")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("upstream error", func(t *testing.T) {
		_, err := c.GetUser(context.Background(), "boom")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})
}

func TestGetUser_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 20*time.Millisecond, nil).GetUser(context.Background(), "u1")
	assert.Error(t, err)
}
