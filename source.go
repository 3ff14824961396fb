package msgbundle

import (
	"sort"
)

// MessageSource exposes the raw, unformatted templates of one locale slice.
type MessageSource interface {
	// Message returns the template bound to key and ok=false if key is unbound.
	Message(key string) (string, bool)
}

// SourceFunc adapts a bare function to the MessageSource interface.
type SourceFunc func(key string) (string, bool)

// Message implements MessageSource for SourceFunc
func (fn SourceFunc) Message(key string) (string, bool) {
	return fn(key)
}

// MapSource is an in-memory source, read only after construction.
type MapSource struct {
	messages map[string]string
}

var _ MessageSource = &MapSource{}

// NewMapSource snapshots messages. Later changes to the map are not seen by
// the source.
func NewMapSource(messages map[string]string) *MapSource {
	clone := make(map[string]string, len(messages))
	for key, value := range messages {
		clone[key] = value
	}
	return &MapSource{messages: clone}
}

func (s *MapSource) Message(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	msg, ok := s.messages[key]
	return msg, ok
}

// Keys returns the bound keys in sorted order.
func (s *MapSource) Keys() []string {
	if s == nil || len(s.messages) == 0 {
		return nil
	}

	keys := make([]string, 0, len(s.messages))
	for key := range s.messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of bound keys.
func (s *MapSource) Len() int {
	if s == nil {
		return 0
	}
	return len(s.messages)
}
