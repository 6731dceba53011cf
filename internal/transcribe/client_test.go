// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashbuk/croaker/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, []byte("riff-wave-bytes"), 0o600))
	return path
}

func TestClient_Transcribe_ReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "whisper-large-v3", 5*time.Second)
	text, err := c.Transcribe(context.Background(), tempAudioFile(t), "en")

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestClient_Transcribe_AuthErrorIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "invalid api key"}})
	}))
	defer srv.Close()

	c := New("bad-key", srv.URL, "whisper-large-v3", 5*time.Second)
	_, err := c.Transcribe(context.Background(), tempAudioFile(t), "en")

	require.Error(t, err)
	classified, ok := err.(session.Classified)
	require.True(t, ok, "error must implement session.Classified")
	assert.Equal(t, session.ErrAuth, classified.Kind())
}

func TestClient_Transcribe_ServerErrorIsClassifiedAsService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "boom"}})
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "whisper-large-v3", 5*time.Second)
	_, err := c.Transcribe(context.Background(), tempAudioFile(t), "en")

	require.Error(t, err)
	classified, ok := err.(session.Classified)
	require.True(t, ok)
	assert.Equal(t, session.ErrService, classified.Kind())
}

func TestClient_Transcribe_EmptyTextIsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "whisper-large-v3", 5*time.Second)
	_, err := c.Transcribe(context.Background(), tempAudioFile(t), "en")

	require.Error(t, err)
	classified, ok := err.(session.Classified)
	require.True(t, ok)
	assert.Equal(t, session.ErrMalformedResponse, classified.Kind())
}
