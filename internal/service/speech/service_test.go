package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prepground/mockview/backend/internal/config"
)

func newTestService(endpoint string) *Service {
	svc := NewService(config.SpeechConfig{
		AppID:       "app",
		AccessToken: "token",
		Cluster:     "volcano_tts",
		Voice:       "en_female_skye_emo_v2_mars_bigtts",
		Timeout:     5 * time.Second,
	})
	svc.endpoint = endpoint
	return svc
}

func TestSynthesizeDecodesAudio(t *testing.T) {
	audio := []byte("mp3-bytes")

	var gotAuth string
	var gotReq ttsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ttsResponse{
			Code: ttsSuccessCode,
			Data: base64.StdEncoding.EncodeToString(audio),
		})
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	got, err := svc.Synthesize(context.Background(), "Hello there", "en_male_glen_emo_v2_mars_bigtts")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}
	if string(got) != string(audio) {
		t.Fatalf("unexpected audio bytes: %q", got)
	}

	if gotAuth != "Bearer;token" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotReq.Audio.VoiceType != "en_male_glen_emo_v2_mars_bigtts" {
		t.Fatalf("requested voice not forwarded: %q", gotReq.Audio.VoiceType)
	}
	if gotReq.Request.Operation != "query" || gotReq.Request.Text != "Hello there" {
		t.Fatalf("unexpected request body: %+v", gotReq.Request)
	}
}

func TestSynthesizeFallsBackToConfiguredVoice(t *testing.T) {
	var gotVoice string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ttsRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotVoice = req.Audio.VoiceType
		json.NewEncoder(w).Encode(ttsResponse{Code: ttsSuccessCode, Data: base64.StdEncoding.EncodeToString([]byte("a"))})
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	if _, err := svc.Synthesize(context.Background(), "hi", ""); err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}
	if gotVoice != "en_female_skye_emo_v2_mars_bigtts" {
		t.Fatalf("expected configured default voice, got %q", gotVoice)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	svc := newTestService("http://127.0.0.1:0")
	if _, err := svc.Synthesize(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestSynthesizeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ttsResponse{Code: 3005, Message: "quota exceeded"})
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	_, err := svc.Synthesize(context.Background(), "hi", "")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSynthesizeEmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ttsResponse{Code: ttsSuccessCode})
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	if _, err := svc.Synthesize(context.Background(), "hi", ""); err == nil {
		t.Fatal("expected error for empty audio payload")
	}
}

func TestSynthesizeHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	if _, err := svc.Synthesize(context.Background(), "hi", ""); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestResolveVoice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "friendly", want: "en_female_candice_emo_v2_mars_bigtts"},
		{in: "strict", want: "en_male_glen_emo_v2_mars_bigtts"},
		{in: "BALANCED", want: "en_female_skye_emo_v2_mars_bigtts"},
		{in: "", want: defaultVoice},
		{in: "pirate", want: defaultVoice},
		{in: "en_male_custom_bigtts", want: "en_male_custom_bigtts"},
	}

	for _, tc := range cases {
		if got := ResolveVoice(tc.in); got != tc.want {
			t.Fatalf("ResolveVoice(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
