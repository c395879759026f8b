/*
Package relay contains the core logic of the real-time message relay.

This file defines the Hub, which owns the connection lifecycle (register,
unregister, presence fan-out) on a single run loop, and the message router
that resolves receivers, applies conditional translation, and emits delivery
events back to both parties.
*/
package relay

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"linguachat/internal/app/translate"
	"linguachat/internal/pkg/errs"
	"linguachat/internal/pkg/logx"
	"linguachat/internal/pkg/randx"
)

const (
	lifecycleChannelBuffer = 64

	// maxMessageLength caps message content in runes. The transport frame limit
	// guards bytes; this guards what the router accepts as one chat message.
	maxMessageLength = 2000
)

// PreferenceSource resolves a user's stored preferred language. The repository
// satisfies it; the relay needs nothing else from storage.
type PreferenceSource interface {
	PreferredLanguage(ctx context.Context, userID string) (string, error)
}

// Hub coordinates all live sessions of the relay.
//
// Registration, deregistration, and the presence broadcasts they trigger are
// serialized on one run goroutine, so a presence announcement is always
// observed after the registry mutation it reports. Message routing runs on
// the sending connection's read goroutine: a pending translation call stalls
// only that sender, never the hub or other connections.
type Hub struct {
	registry   *Registry
	prefs      PreferenceSource
	translator translate.Translator

	// baseline is the language code meaning "no translation needed".
	baseline string

	// messages records every relayed message for the process lifetime.
	messages *MessageLog

	register   chan Session
	unregister chan Session
	stop       chan struct{}
	wg         sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub and starts its run loop.
func NewHub(prefs PreferenceSource, translator translate.Translator, baselineLang string) *Hub {
	h := &Hub{
		registry:   NewRegistry(),
		prefs:      prefs,
		translator: translator,
		baseline:   baselineLang,
		messages:   NewMessageLog(),
		register:   make(chan Session, lifecycleChannelBuffer),
		unregister: make(chan Session, lifecycleChannelBuffer),
		stop:       make(chan struct{}),
		logger:     logx.Logger().With().Str("component", "Hub").Logger(),
	}

	h.wg.Add(1)
	go h.run()

	return h
}

// Register queues an authenticated session for admission. The caller must have
// completed credential verification before constructing the session; the hub
// never sees unauthenticated connections.
func (h *Hub) Register(s Session) {
	select {
	case h.register <- s:
	case <-h.stop:
	}
}

// Unregister queues a session's departure. Safe to call more than once for the
// same session; only the first effective removal produces an offline broadcast.
func (h *Hub) Unregister(s Session) {
	select {
	case h.unregister <- s:
	case <-h.stop:
	}
}

// run is the hub's single lifecycle loop.
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case s := <-h.register:
			replaced := h.registry.Register(s)
			if replaced != nil {
				h.logger.Warn().
					Str("user_id", s.User().ID).
					Msg("User already connected. Closing old connection for replacement.")

				replaced.Kick(errs.NewError(errs.ErrSessionReplaced).Message)
				replaced.CloseSend()
			}

			h.logger.Info().
				Str("user_id", s.User().ID).
				Int("online", h.registry.Len()).
				Msg("Session registered.")

			s.Enqueue(Envelope{
				Type: EventInitData,
				Payload: InitDataPayload{
					CurrentUser: s.User(),
					OnlineUsers: h.registry.OnlineIDs(),
				},
			})

			// Announced strictly after the registry mutation, so a lookup
			// triggered by the broadcast never observes a stale state.
			h.broadcastPresence(s, true)

		case s := <-h.unregister:
			if !h.registry.Unregister(s) {
				h.logger.Info().
					Str("user_id", s.User().ID).
					Msg("Ignoring unregister for stale or unknown session.")
				continue
			}

			s.CloseSend()

			h.logger.Info().
				Str("user_id", s.User().ID).
				Int("online", h.registry.Len()).
				Msg("Session unregistered.")

			h.broadcastPresence(s, false)

		case <-h.stop:
			return
		}
	}
}

// broadcastPresence announces an online/offline transition to every live
// session except the one that triggered it. Best-effort, fire-and-forget.
func (h *Hub) broadcastPresence(origin Session, isOnline bool) {
	env := Envelope{
		Type: EventPresence,
		Payload: PresencePayload{
			UserID:   origin.User().ID,
			IsOnline: isOnline,
		},
	}

	for _, s := range h.registry.Snapshot() {
		if s == origin {
			continue
		}
		s.Enqueue(env)
	}
}

// HandleSend processes one inbound send-message request from sender.
//
// It validates the payload, constructs the immutable Message, resolves the
// receiver, applies translation when the receiver's stored preference differs
// from the baseline, and emits the identical Message value to the receiver
// (if still connected) and as the echo to the sender. Translation failure is
// non-fatal: the message delivers untranslated. Validation failure emits a
// send-failure event to the sender only and mutates nothing.
func (h *Hub) HandleSend(ctx context.Context, sender Session, p SendPayload) {
	if p.Message == "" || p.ReceiverID == "" {
		h.rejectSend(sender, errs.ErrInvalidSendPayload)
		return
	}

	if utf8.RuneCountInString(p.Message) > maxMessageLength {
		h.rejectSend(sender, errs.ErrMessageContentTooLong)
		return
	}

	msg := Message{
		ID:         randx.MessageID(),
		SenderID:   sender.User().ID,
		ReceiverID: p.ReceiverID,
		Original:   p.Message,
		SourceLang: p.SourceLang,
		TargetLang: p.TargetLang,
		Timestamp:  time.Now().UnixMilli(),
	}
	if msg.SourceLang == "" {
		msg.SourceLang = translate.DetectLanguage(p.Message, h.baseline)
	}

	// Translation is only attempted when the receiver is currently connected.
	// Messages to offline receivers are neither queued nor translated.
	if _, online := h.registry.Lookup(p.ReceiverID); online {
		h.maybeTranslate(ctx, &msg)
	}

	// Resolve the receiver again after the (possibly slow) translation call:
	// a disconnect while it was pending must turn delivery into a silent no-op.
	if receiver, ok := h.registry.Lookup(p.ReceiverID); ok {
		receiver.Enqueue(Envelope{Type: EventMessage, Payload: msg})
	}

	// The sender's echo carries exactly what was delivered, translation
	// outcome included.
	sender.Enqueue(Envelope{Type: EventMessage, Payload: msg})

	h.messages.Append(msg)
}

// rejectSend reports a failed send back to the sender only.
func (h *Hub) rejectSend(sender Session, code int) {
	sendErr := errs.NewError(code)
	sender.Enqueue(Envelope{
		Type: EventMessageError,
		Payload: ErrorPayload{
			Code:    sendErr.Code,
			Message: sendErr.Message,
		},
	})
}

// maybeTranslate fills in msg.Translated when the receiver's stored preferred
// language differs from the baseline and the collaborator call succeeds.
func (h *Hub) maybeTranslate(ctx context.Context, msg *Message) {
	pref, err := h.prefs.PreferredLanguage(ctx, msg.ReceiverID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("receiver_id", msg.ReceiverID).
			Msg("Failed to resolve receiver language preference. Delivering untranslated.")
		return
	}

	if pref == "" || pref == h.baseline {
		return
	}

	// The stored preference is authoritative; the payload's target_lang is
	// advisory only.
	msg.TargetLang = pref

	translated, err := h.translator.Translate(ctx, msg.Original, pref)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("message_id", msg.ID).
			Str("target_lang", pref).
			Msg("Translation failed. Delivering untranslated.")
		return
	}

	msg.Translated = translated
	msg.IsTranslated = true
}

// IsOnline reports whether userID has a live session.
func (h *Hub) IsOnline(userID string) bool {
	_, ok := h.registry.Lookup(userID)
	return ok
}

// History returns the recorded conversation between two users in arrival order.
func (h *Hub) History(a, b string) []Message {
	return h.messages.Conversation(a, b)
}

// Shutdown stops the run loop and closes every live session.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down hub...")

	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	h.wg.Wait()

	for _, s := range h.registry.Snapshot() {
		h.registry.Unregister(s)
		s.Kick("Server shutting down.")
		s.CloseSend()
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}
