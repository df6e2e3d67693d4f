package logger

import (
	"encoding/json"
	"sync"
)

const defaultBufferSize = 500

// Hub is the interface for broadcasting messages to connected clients.
type Hub interface {
	Broadcast(msgType string, payload interface{})
}

// Entry represents a parsed log entry for streaming.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Broadcaster implements io.Writer and forwards zerolog JSON entries to a
// hub, keeping a ring buffer of recent entries for the live log view.
type Broadcaster struct {
	hub    Hub
	buffer *RingBuffer[Entry]
	mu     sync.RWMutex
}

// NewBroadcaster creates a new log broadcaster.
// Hub can be nil initially and set later with SetHub.
func NewBroadcaster(hub Hub, bufferSize int) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Broadcaster{
		hub:    hub,
		buffer: NewRingBuffer[Entry](bufferSize),
	}
}

// SetHub sets the hub for sending messages.
func (b *Broadcaster) SetHub(hub Hub) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hub = hub
}

// Write implements io.Writer. It receives JSON log entries from zerolog.
func (b *Broadcaster) Write(p []byte) (n int, err error) {
	n = len(p)

	entry, parseErr := parseEntry(p)
	if parseErr != nil {
		return n, nil //nolint:nilerr // Silently ignore malformed log entries
	}

	b.buffer.Push(entry)

	b.mu.RLock()
	hub := b.hub
	b.mu.RUnlock()

	if hub != nil {
		hub.Broadcast("logs:entry", entry)
	}

	return n, nil
}

// Recent returns all buffered log entries, oldest first.
func (b *Broadcaster) Recent() []Entry {
	return b.buffer.GetAll()
}

// parseEntry parses a zerolog JSON line into an Entry.
func parseEntry(data []byte) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, err
	}

	entry := Entry{Fields: make(map[string]any)}

	if ts, ok := raw["time"].(string); ok {
		entry.Timestamp = ts
		delete(raw, "time")
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = level
		delete(raw, "level")
	}
	if component, ok := raw["component"].(string); ok {
		entry.Component = component
		delete(raw, "component")
	}
	if msg, ok := raw["message"].(string); ok {
		entry.Message = msg
		delete(raw, "message")
	}

	for k, v := range raw {
		entry.Fields[k] = v
	}

	return entry, nil
}
