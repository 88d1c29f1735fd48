package interview

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	interviewmodel "github.com/prepground/mockview/backend/internal/model/interview"
	"github.com/prepground/mockview/backend/internal/model/persona"
	interviewservice "github.com/prepground/mockview/backend/internal/service/interview"
	"github.com/prepground/mockview/backend/internal/service/session"
	"github.com/prepground/mockview/backend/internal/service/speech"
)

// Close codes on the interview socket.
const (
	CloseSessionNotFound = 4004
	CloseSessionBusy     = 4009
)

const readTimeout = 60 * time.Second

// Handler owns the interview websocket: one connection drives one session's
// live exchange from greeting to disconnect.
type Handler struct {
	store    session.Store
	svc      *interviewservice.Service
	synth    speech.Synthesizer
	upgrader websocket.Upgrader
}

// New creates the websocket handler. synth may be nil, in which case audio
// frames are skipped and the interview is text-only.
func New(store session.Store, svc *interviewservice.Service, synth speech.Synthesizer) *Handler {
	return &Handler{
		store: store,
		svc:   svc,
		synth: synth,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the duplex interview endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/interview/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	params := interviewservice.ParseParams(r.URL.Query())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[interview] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess, err := h.store.Claim(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrConnected):
			h.closeWith(conn, CloseSessionBusy, "interview already in progress")
		default:
			h.closeWith(conn, CloseSessionNotFound, "session not found")
		}
		return
	}
	defer h.store.Release(context.Background(), sessionID)

	log.Printf("[interview] session %s connected persona=%s type=%s difficulty=%s duration=%d",
		sessionID, params.Persona, params.Type, params.Difficulty, params.Duration)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	go h.pingLoop(ctx, conn)

	p := h.svc.Begin(sess, params)

	// Greeting fan-out: the literal greeting as a text frame, then the same
	// content synthesized as a binary frame.
	h.sendText(conn, p.Greeting)
	h.sendAudio(ctx, conn, p, p.Greeting)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[interview] read error session=%s: %v", sessionID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}

		if !h.dispatch(ctx, conn, sess, p, msg) {
			return
		}
	}
}

// dispatch handles one inbound frame. It reports whether the connection
// should stay open.
func (h *Handler) dispatch(ctx context.Context, conn *websocket.Conn, sess *interviewmodel.Session, p persona.Persona, msg inboundMessage) bool {
	switch msg.Type {
	case "ping":
		// Keep-alive fast path: no model call, no transcript entry.
		h.writeJSON(conn, outboundMessage{Type: "pong"})
		return true

	case "transcript":
		reply, err := h.svc.HandleTranscript(ctx, sess, msg.Content)
		if err != nil {
			log.Printf("[interview] transcript turn failed session=%s: %v", sess.ID, err)
			h.sendError(conn, "interviewer is unavailable")
			return false
		}
		h.sendText(conn, reply)
		h.sendAudio(ctx, conn, p, reply)
		return true

	case "code_submission":
		reply, err := h.svc.HandleCode(ctx, sess, msg.Code, msg.Language)
		if err != nil {
			log.Printf("[interview] code review turn failed session=%s: %v", sess.ID, err)
			h.sendError(conn, "interviewer is unavailable")
			return false
		}
		h.sendText(conn, reply)
		h.sendAudio(ctx, conn, p, reply)
		return true

	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
		return true
	}
}

func (h *Handler) sendText(conn *websocket.Conn, content string) {
	h.writeJSON(conn, outboundMessage{Type: "text", Content: content})
}

// sendAudio synthesizes and sends the binary audio frame. Synthesis failure
// is terminal for the turn, not the connection: the text frame has already
// been delivered.
func (h *Handler) sendAudio(ctx context.Context, conn *websocket.Conn, p persona.Persona, text string) {
	if h.synth == nil {
		return
	}

	audio, err := h.synth.Synthesize(ctx, text, speech.ResolveVoice(p.VoiceID))
	if err != nil {
		log.Printf("[interview] TTS failed: %v", err)
		return
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		log.Printf("[interview] write audio failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.writeJSON(conn, outboundMessage{Type: "error", Content: message})
}

func (h *Handler) writeJSON(conn *websocket.Conn, msg outboundMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[interview] write failed: %v", err)
	}
}

func (h *Handler) closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	if err := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline); err != nil {
		log.Printf("[interview] close write failed: %v", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
