package interview_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	interviewhandler "github.com/prepground/mockview/backend/internal/handler/interview"
	interviewmodel "github.com/prepground/mockview/backend/internal/model/interview"
	"github.com/prepground/mockview/backend/internal/model/persona"
	interviewservice "github.com/prepground/mockview/backend/internal/service/interview"
	"github.com/prepground/mockview/backend/internal/service/session"
)

type fakeGateway struct {
	reply string
	err   error
}

func (f *fakeGateway) Complete(_ context.Context, _ string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeGateway) StartChat(systemPrompt, ack string) *interviewmodel.ChatContext {
	return interviewmodel.NewChatContext(schema.UserMessage(systemPrompt), schema.AssistantMessage(ack, nil))
}

func (f *fakeGateway) Send(_ context.Context, chat *interviewmodel.ChatContext, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	chat.Append(schema.UserMessage(text))
	chat.Append(schema.AssistantMessage(f.reply, nil))
	return f.reply, nil
}

type fakeSynth struct {
	audio []byte
}

func (f *fakeSynth) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return f.audio, nil
}

type testServer struct {
	store  *session.MemoryStore
	server *httptest.Server
}

func newTestServer(t *testing.T, gateway *fakeGateway, synth *fakeSynth) *testServer {
	t.Helper()

	store := session.NewMemoryStore(0)
	svc := interviewservice.NewService(gateway, persona.NewMemoryStore(persona.Seed()))

	r := chi.NewRouter()
	var handler *interviewhandler.Handler
	if synth != nil {
		handler = interviewhandler.New(store, svc, synth)
	} else {
		handler = interviewhandler.New(store, svc, nil)
	}
	handler.RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return &testServer{store: store, server: server}
}

func (ts *testServer) putSession(t *testing.T, id string) *interviewmodel.Session {
	t.Helper()

	sess := &interviewmodel.Session{ID: id, ResumeText: "resume body"}
	if err := ts.store.Put(context.Background(), sess); err != nil {
		t.Fatalf("Put err: %v", err)
	}
	return sess
}

func (ts *testServer) dial(t *testing.T, sessionID, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/ws/interview/" + sessionID
	if query != "" {
		url += "?" + query
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

type frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func readJSONFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func readGreeting(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	f := readJSONFrame(t, conn)
	if f.Type != "text" || f.Content == "" {
		t.Fatalf("expected greeting text frame, got %+v", f)
	}
	return f
}

func TestUnknownSessionCloses4004(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	conn := ts.dial(t, "missing", "")

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != interviewhandler.CloseSessionNotFound {
		t.Fatalf("expected close %d, got %v", interviewhandler.CloseSessionNotFound, err)
	}
}

func TestSecondConnectionCloses4009(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	ts.putSession(t, "s1")

	first := ts.dial(t, "s1", "")
	readGreeting(t, first)

	second := ts.dial(t, "s1", "")
	_, _, err := second.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != interviewhandler.CloseSessionBusy {
		t.Fatalf("expected close %d, got %v", interviewhandler.CloseSessionBusy, err)
	}
}

func TestReleaseAllowsReconnect(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	ts.putSession(t, "s1")

	first := ts.dial(t, "s1", "")
	readGreeting(t, first)
	first.Close()

	// The claim is released when the first connection's handler returns.
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, err := ts.store.Claim(context.Background(), "s1"); err == nil {
			ts.store.Release(context.Background(), "s1")
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never released after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	second := ts.dial(t, "s1", "")
	readGreeting(t, second)
}

func TestGreetingUsesPersona(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "persona=friendly&type=technical&difficulty=senior&duration=30")
	greeting := readGreeting(t, conn)

	personas := persona.NewMemoryStore(persona.Seed())
	if want := personas.Resolve("friendly").Greeting; greeting.Content != want {
		t.Fatalf("greeting = %q, want %q", greeting.Content, want)
	}
}

func TestPingPong(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "")
	readGreeting(t, conn)

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if f := readJSONFrame(t, conn); f.Type != "pong" {
		t.Fatalf("expected pong, got %+v", f)
	}
}

func TestTranscriptTurnFansOutTextAndAudio(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33}
	ts := newTestServer(t, &fakeGateway{reply: "Tell me about that project"}, &fakeSynth{audio: audio})
	ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "")
	readGreeting(t, conn)

	// Greeting audio frame.
	kind, data, err := conn.ReadMessage()
	if err != nil || kind != websocket.BinaryMessage {
		t.Fatalf("expected greeting audio frame, got kind=%d err=%v", kind, err)
	}
	if string(data) != string(audio) {
		t.Fatalf("unexpected audio payload: %v", data)
	}

	if err := conn.WriteJSON(map[string]string{"type": "transcript", "content": "I built a CDC pipeline"}); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	if f := readJSONFrame(t, conn); f.Type != "text" || f.Content != "Tell me about that project" {
		t.Fatalf("unexpected reply frame: %+v", f)
	}
	kind, _, err = conn.ReadMessage()
	if err != nil || kind != websocket.BinaryMessage {
		t.Fatalf("expected reply audio frame, got kind=%d err=%v", kind, err)
	}
}

func TestCodeSubmissionTurn(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{reply: "Looks correct, consider edge cases"}, nil)
	sess := ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "type=technical&duration=20")
	readGreeting(t, conn)

	msg := map[string]string{"type": "code_submission", "code": "func main() {}", "language": "go"}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write code submission: %v", err)
	}

	if f := readJSONFrame(t, conn); f.Type != "text" || !strings.Contains(f.Content, "Looks correct") {
		t.Fatalf("unexpected review frame: %+v", f)
	}
	if len(sess.Submissions) != 1 || sess.Submissions[0].Language != "go" {
		t.Fatalf("submission not recorded: %+v", sess.Submissions)
	}
}

func TestMalformedFrameKeepsConnectionOpen(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "")
	readGreeting(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write malformed frame: %v", err)
	}
	if f := readJSONFrame(t, conn); f.Type != "error" {
		t.Fatalf("expected error frame, got %+v", f)
	}

	// Still alive.
	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if f := readJSONFrame(t, conn); f.Type != "pong" {
		t.Fatalf("expected pong after error frame, got %+v", f)
	}
}

func TestUnknownTypeKeepsConnectionOpen(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{}, nil)
	ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "")
	readGreeting(t, conn)

	if err := conn.WriteJSON(map[string]string{"type": "emoji"}); err != nil {
		t.Fatalf("write unknown type: %v", err)
	}
	f := readJSONFrame(t, conn)
	if f.Type != "error" || !strings.Contains(f.Content, "emoji") {
		t.Fatalf("expected error frame naming the type, got %+v", f)
	}
}

func TestTurnFailureClosesConnection(t *testing.T) {
	ts := newTestServer(t, &fakeGateway{err: errors.New("provider down")}, nil)
	ts.putSession(t, "s1")

	conn := ts.dial(t, "s1", "")
	readGreeting(t, conn)

	if err := conn.WriteJSON(map[string]string{"type": "transcript", "content": "hello"}); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	if f := readJSONFrame(t, conn); f.Type != "error" {
		t.Fatalf("expected error frame, got %+v", f)
	}

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close after turn failure")
	}
}
