package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier_Notify(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	err := notifier.Notify(context.Background(), "John Smith")

	require.NoError(t, err)
	assert.Equal(t, "John Smith is on 100%! :tada:", got["text"])
}

func TestSlackNotifier_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	err := notifier.Notify(context.Background(), "John Smith")

	assert.ErrorContains(t, err, "403")
}
