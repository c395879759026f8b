package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"linguachat/internal/app/relay"
	"linguachat/internal/app/user"
	"linguachat/internal/pkg/auth/jwt"
)

// wsURL converts the test server's base URL into the relay endpoint, with the
// credential in the query string the way browser clients send it.
func wsURL(serverURL, token string) string {
	endpoint := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	if token != "" {
		endpoint += "?token=" + url.QueryEscape(token)
	}
	return endpoint
}

// dialWS opens a relay connection for the given token.
func dialWS(t *testing.T, env *testEnv, token string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(env.server.URL, token), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

// createRelayUser inserts an account directly and signs a token for it.
func createRelayUser(t *testing.T, env *testEnv, name, email, lang string) (string, user.User) {
	t.Helper()

	created, err := env.repo.CreateUser(context.Background(), user.User{
		Name:              name,
		Email:             email,
		PreferredLanguage: lang,
	}, "unused-hash")
	require.NoError(t, err)

	token, err := jwt.GenerateToken(&jwt.Payload{UserID: created.ID, Email: created.Email}, testJWTSecret, time.Hour)
	require.NoError(t, err)

	return token, created
}

// readEvent reads frames until one of the wanted type arrives, skipping
// interleaved presence or other events.
func readEvent(t *testing.T, conn *websocket.Conn, want relay.EventType) json.RawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	for {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q event", want)

		var env struct {
			Type    relay.EventType `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(frame, &env))

		if env.Type == want {
			return env.Payload
		}
	}
}

func TestHandleWebSocket_RejectsMissingToken(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	conn, response, err := websocket.DefaultDialer.Dial(wsURL(env.server.URL, ""), nil)
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Nil(conn)
	req.Equal(http.StatusUnauthorized, response.StatusCode)
}

func TestHandleWebSocket_RejectsInvalidToken(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	conn, response, err := websocket.DefaultDialer.Dial(wsURL(env.server.URL, "garbage"), nil)
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Nil(conn)
	req.Equal(http.StatusUnauthorized, response.StatusCode)

	// A valid signature over an unknown subject is also refused.
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "ghost"}, testJWTSecret, time.Hour)
	req.NoError(err)

	conn, response, err = websocket.DefaultDialer.Dial(wsURL(env.server.URL, token), nil)
	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Nil(conn)
	req.Equal(http.StatusUnauthorized, response.StatusCode)
}

func TestHandleWebSocket_InitDataAndPresence(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	aliceToken, alice := createRelayUser(t, env, "Alice", "alice@example.com", "en")
	bobToken, bob := createRelayUser(t, env, "Bob", "bob@example.com", "es")

	aliceConn := dialWS(t, env, aliceToken)

	var aliceInit relay.InitDataPayload
	req.NoError(json.Unmarshal(readEvent(t, aliceConn, relay.EventInitData), &aliceInit))
	req.Equal(alice.ID, aliceInit.CurrentUser.ID)
	req.Equal([]string{alice.ID}, aliceInit.OnlineUsers)

	bobConn := dialWS(t, env, bobToken)

	var bobInit relay.InitDataPayload
	req.NoError(json.Unmarshal(readEvent(t, bobConn, relay.EventInitData), &bobInit))
	req.ElementsMatch([]string{alice.ID, bob.ID}, bobInit.OnlineUsers)

	// Alice hears Bob come online.
	var presence relay.PresencePayload
	req.NoError(json.Unmarshal(readEvent(t, aliceConn, relay.EventPresence), &presence))
	req.Equal(bob.ID, presence.UserID)
	req.True(presence.IsOnline)

	// Bob leaves; Alice hears it.
	bobConn.Close()

	req.NoError(json.Unmarshal(readEvent(t, aliceConn, relay.EventPresence), &presence))
	req.Equal(bob.ID, presence.UserID)
	req.False(presence.IsOnline)
}

func TestHandleWebSocket_TranslatedDelivery(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	aliceToken, alice := createRelayUser(t, env, "Alice", "alice@example.com", "en")
	bobToken, bob := createRelayUser(t, env, "Bob", "bob@example.com", "es")

	aliceConn := dialWS(t, env, aliceToken)
	readEvent(t, aliceConn, relay.EventInitData)

	bobConn := dialWS(t, env, bobToken)
	readEvent(t, bobConn, relay.EventInitData)

	frame, err := json.Marshal(relay.Envelope{
		Type: relay.EventSendMessage,
		Payload: relay.SendPayload{
			Message:    "hello",
			ReceiverID: bob.ID,
			SourceLang: "en",
		},
	})
	req.NoError(err)
	req.NoError(aliceConn.WriteMessage(websocket.TextMessage, frame))

	// The stub collaborator answers "hola"; Bob prefers Spanish.
	var delivered relay.Message
	req.NoError(json.Unmarshal(readEvent(t, bobConn, relay.EventMessage), &delivered))
	req.Equal("hello", delivered.Original)
	req.Equal("hola", delivered.Translated)
	req.True(delivered.IsTranslated)
	req.Equal("es", delivered.TargetLang)
	req.Equal(alice.ID, delivered.SenderID)

	// The sender's echo is the identical message.
	var echoed relay.Message
	req.NoError(json.Unmarshal(readEvent(t, aliceConn, relay.EventMessage), &echoed))
	req.Equal(delivered, echoed)
}

func TestHandleWebSocket_ReplacedSessionGetsKickCode(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	aliceToken, _ := createRelayUser(t, env, "Alice", "alice@example.com", "en")

	first := dialWS(t, env, aliceToken)
	readEvent(t, first, relay.EventInitData)

	second := dialWS(t, env, aliceToken)
	readEvent(t, second, relay.EventInitData)

	// The first connection is closed with the session-replaced code.
	req.NoError(first.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		_, _, err := first.ReadMessage()
		if err != nil {
			req.True(websocket.IsCloseError(err, relay.CloseCodeSessionReplaced), "unexpected close error: %v", err)
			break
		}
	}
}
