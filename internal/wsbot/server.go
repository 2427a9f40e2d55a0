// ABOUTME: Websocket listener for browser clients speaking the msg/ping envelope protocol
// ABOUTME: One blocking read loop per connection, all turns go through the shared bot

package wsbot

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/ibm-watson-data-lab/healthbot/internal/bot"
)

// Envelope is the JSON message exchanged with socket clients.
//
//	{"type":"ping"}                      <-> {"type":"ping"}
//	{"type":"msg","userId":...,"text":...} -> {"type":"msg","text":...,"watsonData":...}
type Envelope struct {
	Type       string          `json:"type"`
	UserID     string          `json:"userId,omitempty"`
	Text       string          `json:"text,omitempty"`
	WatsonData json.RawMessage `json:"watsonData,omitempty"`
}

// Envelope types.
const (
	TypePing = "ping"
	TypeMsg  = "msg"
)

// Server exposes the bot over websockets.
type Server struct {
	bot    *bot.Bot
	logger *slog.Logger
}

// NewServer creates a websocket server around an existing bot instance.
func NewServer(b *bot.Bot) *Server {
	return &Server{
		bot:    b,
		logger: slog.Default().With("component", "wsbot"),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint at /ws
// and a liveness endpoint at /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// handleWS upgrades the connection and runs the per-connection read loop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()

	// Anonymous clients that never send a userId get a stable identity for
	// the life of the connection
	connUserID := uuid.New().String()

	s.logger.Info("websocket client connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		var env Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, ctx.Err()) {
				s.logger.Info("websocket client disconnected", "remote", r.RemoteAddr)
			} else {
				s.logger.Warn("websocket read failed", "remote", r.RemoteAddr, "error", err)
			}
			return
		}

		switch env.Type {
		case TypePing:
			if err := wsjson.Write(ctx, conn, Envelope{Type: TypePing}); err != nil {
				s.logger.Warn("websocket write failed", "remote", r.RemoteAddr, "error", err)
				return
			}

		case TypeMsg:
			userID := env.UserID
			if userID == "" {
				userID = connUserID
			}

			reply := s.bot.ProcessMessage(ctx, userID, env.Text)

			out := Envelope{Type: TypeMsg, Text: reply.Text}
			if reply.DialogResponse != nil {
				out.WatsonData = reply.DialogResponse.Raw
			}
			if err := wsjson.Write(ctx, conn, out); err != nil {
				s.logger.Warn("websocket write failed", "remote", r.RemoteAddr, "error", err)
				return
			}

		default:
			s.logger.Debug("ignoring unknown envelope type", "type", env.Type)
		}
	}
}
