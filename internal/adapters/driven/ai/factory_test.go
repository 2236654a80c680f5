package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := New(Settings{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key")
	})

	t.Run("builds a working service", func(t *testing.T) {
		svc, err := New(Settings{APIKey: "test-key"})
		require.NoError(t, err)
		defer svc.Close()

		assert.NotEmpty(t, svc.ModelName())
	})
}

func TestValidateConnection(t *testing.T) {
	t.Run("reachable service passes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		}))
		defer srv.Close()

		svc, err := New(Settings{APIKey: "test-key", BaseURL: srv.URL})
		require.NoError(t, err)
		defer svc.Close()

		assert.NoError(t, ValidateConnection(svc))
	})

	t.Run("unreachable service fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc, err := New(Settings{APIKey: "test-key", BaseURL: srv.URL})
		require.NoError(t, err)
		defer svc.Close()

		err = ValidateConnection(svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreachable")
	})
}
