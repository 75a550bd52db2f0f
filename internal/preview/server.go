// Package preview serves the most recent magnified image to a display layer
// over HTTP and WebSocket.
//
// Routes:
//
//	GET /last.png   the last magnified image (404 until one exists)
//	GET /last/dim   {"width":W,"height":H} of the last image (404 until one exists)
//	GET /ws         WebSocket; one binary PNG message per new image
//
// Responses are never cached and echo the request Origin for CORS, so a
// local web view can poll or subscribe without a proxy.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/eyedropper-mcp/internal/logging"
	"github.com/ironsheep/eyedropper-mcp/internal/sampler"
)

const writeTimeout = 5 * time.Second

// Server exposes a sampler.Slot over HTTP.
type Server struct {
	slot     *sampler.Slot
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// New returns a Server reading from slot.
func New(slot *sampler.Slot, log logrus.FieldLogger) *Server {
	return &Server{
		slot: slot,
		log:  logging.OrDiscard(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /last.png", s.handleImage)
	mux.HandleFunc("GET /last/dim", s.handleDimensions)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.WithField("addr", addr).Info("preview server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func setCommonHeaders(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Cache-Control", "no-store")
	if origin := r.Header.Get("Origin"); origin != "" {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	setCommonHeaders(w, r)
	res := s.slot.Load()
	if res == nil {
		http.Error(w, "no image captured yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Result-Id", res.ID.String())
	if _, err := w.Write(res.PNG); err != nil {
		s.log.WithError(err).Debug("writing preview image")
	}
}

type dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	setCommonHeaders(w, r)
	width, height, ok := s.slot.Dimensions()
	if !ok {
		http.Error(w, "no image captured yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dimensions{Width: width, Height: height}); err != nil {
		s.log.WithError(err).Debug("writing preview dimensions")
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := s.slot.Subscribe()
	defer cancel()

	// The read loop only detects the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if res := s.slot.Load(); res != nil {
		if err := writeImage(conn, res); err != nil {
			return
		}
	}

	for {
		select {
		case res := <-updates:
			if err := writeImage(conn, res); err != nil {
				s.log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeImage(conn *websocket.Conn, res *sampler.Result) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, res.PNG)
}
