// Package server implements the Blockdown preview server: a thin bridge that
// serves parsed block documents as JSON and pushes reload events to connected
// editing surfaces over WebSocket when source files change on disk.
//
// The server does not render blocks; rendering belongs to the external
// editing surface. It only exposes the parse boundary.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/sparktype/blockdown/internal/config"
	"github.com/sparktype/blockdown/internal/logging"
	"github.com/sparktype/blockdown/internal/registry"
	"github.com/sparktype/blockdown/internal/types"
	"github.com/sparktype/blockdown/internal/watcher"
	"github.com/sparktype/blockdown/pkg/blockdown"
)

const (
	// Time allowed to write a message to a peer
	writeWait = 10 * time.Second
)

// PreviewServer serves parsed documents and live reload events.
type PreviewServer struct {
	config   *config.Config
	registry *registry.DocumentRegistry
	logger   logging.Logger

	httpServer  *http.Server
	serverMutex sync.Mutex

	clients      map[*websocket.Conn]struct{}
	clientsMutex sync.Mutex
}

// New creates a preview server over a document registry.
func New(cfg *config.Config, reg *registry.DocumentRegistry, logger logging.Logger) *PreviewServer {
	return &PreviewServer{
		config:   cfg,
		registry: reg,
		logger:   logger.WithComponent("server"),
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Start loads the content tree, wires the file watcher, and serves until the
// context is cancelled or the listener fails.
func (s *PreviewServer) Start(ctx context.Context) error {
	if err := s.initialScan(ctx); err != nil {
		s.logger.Warn(ctx, err, "initial content scan failed")
	}

	fw, err := s.setupFileWatcher(ctx)
	if err != nil {
		return fmt.Errorf("setting up file watcher: %w", err)
	}
	defer fw.Stop()

	go s.broadcastRegistryEvents(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/document", s.handleDocument)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "preview server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// initialScan parses every document under the configured scan paths.
func (s *PreviewServer) initialScan(ctx context.Context) error {
	for _, root := range s.config.Content.ScanPaths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !hasExtension(path, s.config.Content.Extensions) {
				return nil
			}
			if err := s.loadDocument(path); err != nil {
				s.logger.Warn(ctx, err, "skipping unparseable document", "path", path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// loadDocument parses one file into the registry.
func (s *PreviewServer) loadDocument(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	blocks, err := blockdown.Parse(string(data))
	if err != nil {
		return err
	}
	s.registry.Register(&types.Document{Path: path, Blocks: blocks})
	return nil
}

// setupFileWatcher re-parses changed documents into the registry.
func (s *PreviewServer) setupFileWatcher(ctx context.Context) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(time.Duration(s.config.Watch.DebounceMillis) * time.Millisecond)
	if err != nil {
		return nil, err
	}

	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.NoBackupFilter)
	fw.AddFilter(watcher.MarkdownFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			switch event.Type {
			case watcher.EventTypeDeleted, watcher.EventTypeRenamed:
				s.registry.Remove(event.Path)
			default:
				if err := s.loadDocument(event.Path); err != nil {
					s.logger.Warn(ctx, err, "re-parse failed", "path", event.Path)
				}
			}
		}
		return nil
	})

	for _, root := range s.config.Content.ScanPaths {
		if err := fw.AddRecursive(root); err != nil {
			return nil, err
		}
	}

	if err := fw.Start(ctx); err != nil {
		return nil, err
	}
	return fw, nil
}

// reloadMessage is the payload pushed to editing surfaces on change.
type reloadMessage struct {
	Event string `json:"event"`
	Path  string `json:"path"`
}

// broadcastRegistryEvents fans registry changes out to websocket clients.
func (s *PreviewServer) broadcastRegistryEvents(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(reloadMessage{
				Event: event.Type.String(),
				Path:  event.Path,
			})
			if err != nil {
				continue
			}
			s.broadcast(ctx, payload)
		}
	}
}

// broadcast writes a message to every connected client, dropping clients that
// fail.
func (s *PreviewServer) broadcast(ctx context.Context, payload []byte) {
	s.clientsMutex.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.clientsMutex.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		err := conn.Write(writeCtx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			s.removeClient(conn)
		}
	}
}

func (s *PreviewServer) addClient(conn *websocket.Conn) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	s.clients[conn] = struct{}{}
}

func (s *PreviewServer) removeClient(conn *websocket.Conn) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

// handleWebSocket upgrades a reload subscription connection.
func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	s.addClient(conn)

	// Reload subscribers never send application data; CloseRead surfaces
	// disconnects.
	ctx := conn.CloseRead(context.Background())
	go func() {
		<-ctx.Done()
		s.removeClient(conn)
	}()
}

// checkOrigin validates the request origin against the configured allow list.
func (s *PreviewServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	allowedHosts := []string{
		fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		fmt.Sprintf("localhost:%d", s.config.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", s.config.Server.Port),
	}
	for _, host := range allowedHosts {
		if originURL.Host == host {
			return true
		}
	}

	// Configured entries may be bare host:port or full origins
	for _, entry := range s.config.Server.AllowedOrigins {
		if originURL.Host == entry || origin == entry {
			return true
		}
	}
	return false
}

// handleHealth reports liveness and the registry size.
func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"documents": s.registry.Count(),
	})
}

// handleDocuments lists registered document paths.
func (s *PreviewServer) handleDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"documents": s.registry.Paths(),
	})
}

// handleDocument returns one parsed document as JSON (?path=...).
func (s *PreviewServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	doc, ok := s.registry.Get(path)
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, doc)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}

// hasExtension reports whether the path has one of the configured document
// extensions.
func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
