// Package registry manages the set of parsed block documents and broadcasts
// change events to interested watchers (the preview server and the watch
// command).
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/sparktype/blockdown/internal/types"
)

// DocumentRegistry holds parsed documents keyed by source path.
type DocumentRegistry struct {
	documents map[string]*types.Document
	mutex     sync.RWMutex
	watchers  []chan DocumentEvent
}

// DocumentEvent represents a change in the document registry
type DocumentEvent struct {
	Type      EventType
	Document  *types.Document
	Path      string
	Timestamp time.Time
}

// EventType represents the type of document event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// String returns the string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewDocumentRegistry creates a new document registry
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		documents: make(map[string]*types.Document),
		watchers:  make([]chan DocumentEvent, 0),
	}
}

// Register adds or updates a document in the registry
func (r *DocumentRegistry) Register(doc *types.Document) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.documents[doc.Path]; exists {
		eventType = EventTypeUpdated
	}

	r.documents[doc.Path] = doc

	r.notify(DocumentEvent{
		Type:      eventType,
		Document:  doc,
		Path:      doc.Path,
		Timestamp: time.Now(),
	})
}

// Get retrieves a document by path
func (r *DocumentRegistry) Get(path string) (*types.Document, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, exists := r.documents[path]
	return doc, exists
}

// Paths returns the registered document paths in lexical order
func (r *DocumentRegistry) Paths() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	paths := make([]string, 0, len(r.documents))
	for path := range r.documents {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Remove removes a document from the registry
func (r *DocumentRegistry) Remove(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, exists := r.documents[path]
	if !exists {
		return
	}

	delete(r.documents, path)

	r.notify(DocumentEvent{
		Type:      EventTypeRemoved,
		Document:  doc,
		Path:      path,
		Timestamp: time.Now(),
	})
}

// Watch returns a channel that receives document events
func (r *DocumentRegistry) Watch() <-chan DocumentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan DocumentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *DocumentRegistry) UnWatch(ch <-chan DocumentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered documents
func (r *DocumentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.documents)
}

// notify fans an event out to every watcher. Callers must hold the lock.
func (r *DocumentRegistry) notify(event DocumentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
