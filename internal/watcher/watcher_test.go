package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters(t *testing.T) {
	tests := []struct {
		name     string
		filter   FileFilter
		path     string
		accepted bool
	}{
		{"markdown file", MarkdownFilter, "content/about.md", true},
		{"non-markdown file", MarkdownFilter, "content/notes.txt", false},
		{"extensionless file", MarkdownFilter, "Makefile", false},
		{"git internals", NoGitFilter, ".git/HEAD", false},
		{"nested git internals", NoGitFilter, "content/.git/config", false},
		{"regular path", NoGitFilter, "content/about.md", true},
		{"backup file", NoBackupFilter, "content/about.md.bak", false},
		{"emacs lock file", NoBackupFilter, "content/.#about.md", false},
		{"regular file", NoBackupFilter, "content/about.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.accepted, tt.filter(tt.path))
		})
	}
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestDebouncerGroupsEvents(t *testing.T) {
	d := &Debouncer{
		delay:   20 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.md"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.md"})
	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "b.md"})

	select {
	case events := <-d.output:
		// Duplicate paths collapse into one event
		require.Len(t, events, 2)
		paths := map[string]EventType{}
		for _, e := range events {
			paths[e.Path] = e.Type
		}
		assert.Equal(t, EventTypeModified, paths["a.md"])
		assert.Equal(t, EventTypeCreated, paths["b.md"])
	case <-time.After(time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestDebouncerEmptyFlush(t *testing.T) {
	d := &Debouncer{
		delay:  10 * time.Millisecond,
		output: make(chan []ChangeEvent, 10),
	}

	d.flush()

	select {
	case events := <-d.output:
		t.Fatalf("unexpected flush output: %v", events)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewFileWatcher(t *testing.T) {
	fw, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(MarkdownFilter)
	fw.AddHandler(func(events []ChangeEvent) error { return nil })

	assert.Len(t, fw.filters, 1)
	assert.Len(t, fw.handlers, 1)
}

func TestValidatePath(t *testing.T) {
	t.Run("relative path inside tree", func(t *testing.T) {
		clean, err := validatePath(".")
		require.NoError(t, err)
		assert.Equal(t, ".", clean)
	})

	t.Run("traversal rejected", func(t *testing.T) {
		_, err := validatePath("../outside")
		assert.Error(t, err)
	})
}
