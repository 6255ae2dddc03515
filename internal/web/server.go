// Package web provides the HTTP surface of the breath-sync daemon: the
// breathing page, a JSON status document, a websocket snapshot stream and
// the control endpoints.
package web

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/session"
	"github.com/sweeney/breath-sync/internal/status"
)

// Control is the subset of the session controller driven over HTTP.
type Control interface {
	Configure(ctx context.Context, sel logic.Selection, theme logic.Theme) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Toggle(ctx context.Context) error
}

// Server serves the breathing page, status and control API over HTTP.
type Server struct {
	httpServer  *http.Server
	tracker     *status.Tracker
	control     Control
	broadcaster *Broadcaster
}

// New creates a Server that reads state from the tracker, forwards commands
// to control and streams snapshots through broadcaster.
func New(addr string, tracker *status.Tracker, control Control, broadcaster *Broadcaster) *Server {
	s := &Server{tracker: tracker, control: control, broadcaster: broadcaster}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/configure", s.handleConfigure)
	mux.HandleFunc("/api/start", s.command(control.Start))
	mux.HandleFunc("/api/stop", s.command(control.Stop))
	mux.HandleFunc("/api/toggle", s.command(control.Toggle))

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and disconnects stream clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	c := s.broadcaster.AddClient(conn)

	// The stream is one-way; reading only detects the client going away.
	go func() {
		defer s.broadcaster.RemoveClient(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	req, err := decodeConfigure(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, theme, err := req.resolve(s.tracker.Snapshot().Session.Config.Theme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeResult(w, s.control.Configure(r.Context(), sel, theme))
}

func (s *Server) command(fn func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		writeResult(w, fn(r.Context()))
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, logic.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrNotRunning):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("control error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
