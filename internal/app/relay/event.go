/*
Package relay contains the core logic of the real-time message relay: the
auth-gated connection registry, the message router with conditional translation,
and the presence broadcaster.

This file defines the tagged event envelopes exchanged over a WebSocket
connection. Every frame in either direction is an Envelope whose Type selects
the payload variant; payloads are validated at the boundary before they reach
the router.
*/
package relay

import (
	"linguachat/internal/app/user"
)

// EventType discriminates the envelope payload variants.
type EventType string

const (
	// EventSendMessage is the only client-to-server event: a request to relay
	// a chat message to a receiver.
	EventSendMessage EventType = "sendMessage"

	// EventMessage delivers a relayed chat message, both to the receiver and
	// as the echo to the sender.
	EventMessage EventType = "message"

	// EventPresence announces an online/offline transition of another user.
	EventPresence EventType = "presence"

	// EventMessageError reports a failed send back to the sender only.
	EventMessageError EventType = "messageError"

	// EventInitData is sent once after registration with the connecting
	// user's profile and the ids of currently online users.
	EventInitData EventType = "initData"
)

// Envelope is the wire frame for every relay event.
type Envelope struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// SendPayload is the client's send-message request. The sender identity is
// never read from the payload; it always comes from the authenticated
// connection. SourceLang and TargetLang are advisory: the authoritative
// translation target is the receiver's stored preferred language.
type SendPayload struct {
	Message    string `json:"message"`
	SourceLang string `json:"source_lang,omitempty"`
	TargetLang string `json:"target_lang,omitempty"`
	ReceiverID string `json:"receiver_id"`
}

// Message is a single relayed chat event. It is immutable once built and is
// delivered identically to the receiver and as the sender's echo.
type Message struct {
	ID           string `json:"id"`
	SenderID     string `json:"sender_id"`
	ReceiverID   string `json:"receiver_id"`
	Original     string `json:"original"`
	Translated   string `json:"translated,omitempty"`
	SourceLang   string `json:"source_lang"`
	TargetLang   string `json:"target_lang"`
	Timestamp    int64  `json:"timestamp"`
	IsTranslated bool   `json:"is_translated"`
}

// PresencePayload announces an online/offline transition.
type PresencePayload struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// ErrorPayload reports a send failure back to the sender.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// InitDataPayload carries the initial state sent to a freshly registered
// connection.
type InitDataPayload struct {
	CurrentUser user.User `json:"currentUser"`
	OnlineUsers []string  `json:"onlineUsers"`
}
