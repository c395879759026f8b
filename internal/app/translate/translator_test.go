package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPTranslator_Translate(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello", body.Text)
		require.Equal(t, "es", body.TargetLanguage)

		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "hola"})
	}))
	defer server.Close()

	translator := NewHTTPTranslator(server.URL, time.Second)

	translated, err := translator.Translate(context.Background(), "hello", "es")
	req.NoError(err)
	req.Equal("hola", translated)
}

func TestHTTPTranslator_NonSuccessStatus(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	translator := NewHTTPTranslator(server.URL, time.Second)

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)
	req.Contains(err.Error(), "status 500")
}

func TestHTTPTranslator_MalformedBody(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	translator := NewHTTPTranslator(server.URL, time.Second)

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)
}

func TestHTTPTranslator_EmptyTranslatedText(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translatedText": ""}`))
	}))
	defer server.Close()

	translator := NewHTTPTranslator(server.URL, time.Second)

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)
}

func TestHTTPTranslator_TimeoutBoundsStalledCollaborator(t *testing.T) {
	req := require.New(t)

	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	translator := NewHTTPTranslator(server.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)
	req.Less(time.Since(start), time.Second)
}

func TestHTTPTranslator_UnreachableEndpoint(t *testing.T) {
	req := require.New(t)

	translator := NewHTTPTranslator("http://127.0.0.1:1/translate", 200*time.Millisecond)

	_, err := translator.Translate(context.Background(), "hello", "es")
	req.Error(err)
}
