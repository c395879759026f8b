package relay

import "sync"

// MessageLog is the in-memory append-only record of every relayed message for
// the lifetime of the process. No eviction: persistence is out of scope and
// the log exists to serve the conversation-history endpoint of the demo.
type MessageLog struct {
	mu      sync.RWMutex
	entries []Message
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append records a delivered message in arrival order.
func (l *MessageLog) Append(m Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, m)
}

// Conversation returns the messages exchanged between a and b, in arrival order.
func (l *MessageLog) Conversation(a, b string) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	conversation := make([]Message, 0)
	for _, m := range l.entries {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			conversation = append(conversation, m)
		}
	}

	return conversation
}

// Len returns the number of recorded messages.
func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}
