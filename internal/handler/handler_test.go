package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linguachat/internal/app/relay"
	"linguachat/internal/app/repo"
	"linguachat/internal/app/translate"
	"linguachat/internal/configs"
)

const testJWTSecret = "handler-test-secret"

// testEnv wires a full server around an in-memory repository and a stub
// translation collaborator.
type testEnv struct {
	server     *httptest.Server
	repo       *repo.MemoryRepository
	hub        *relay.Hub
	translator *httptest.Server
}

// newTestEnv starts the full router backed by an empty in-memory repository.
// The stub collaborator answers every request with {"translatedText":"hola"}.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	translator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translatedText": "hola"})
	}))
	t.Cleanup(translator.Close)

	memRepo := repo.NewMemoryRepository()
	hub := relay.NewHub(memRepo, translate.NewHTTPTranslator(translator.URL, time.Second), "en")
	t.Cleanup(hub.Shutdown)

	cfg := &configs.AppConfig{
		Environment:       "development",
		Port:              8080,
		AllowedOrigins:    []string{},
		JWTSecret:         testJWTSecret,
		TranslatorURL:     translator.URL,
		TranslatorTimeout: time.Second,
		BaselineLanguage:  "en",
	}

	server := httptest.NewServer(Router(&AppDeps{
		Hub:    hub,
		Config: cfg,
		Repo:   memRepo,
	}))
	t.Cleanup(server.Close)

	return &testEnv{
		server:     server,
		repo:       memRepo,
		hub:        hub,
		translator: translator,
	}
}

// apiResponse mirrors resp.JSONResponse with the data left raw for per-test decoding.
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doJSON performs one request against the test server and decodes the standard
// response envelope. An empty token leaves the request unauthenticated.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := e.server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	var decoded apiResponse
	require.NoError(t, json.NewDecoder(response.Body).Decode(&decoded))

	return response.StatusCode, decoded
}

// registerUser creates an account through the public API and returns its token
// and user id.
func (e *testEnv) registerUser(t *testing.T, name, email, lang string) (token, userID string) {
	t.Helper()

	status, out := e.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Name:              name,
		Email:             email,
		Password:          "password123",
		PreferredLanguage: lang,
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, out.Code)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.NotEmpty(t, data.Token)
	require.NotEmpty(t, data.User.ID)

	return data.Token, data.User.ID
}

func TestHealthEndpoint(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	status, out := env.doJSON(t, http.MethodGet, "/health", "", nil)
	req.Equal(http.StatusOK, status)
	req.Equal(0, out.Code)
}
