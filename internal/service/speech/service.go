package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/prepground/mockview/backend/internal/config"
)

// Synthesizer turns interviewer text into audio bytes for the binary frame
// of the fan-out.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

const defaultEndpoint = "https://openspeech.bytedance.com/api/v1/tts"

// ttsSuccessCode is the volcengine one-shot synthesis success status.
const ttsSuccessCode = 3000

// Service synthesizes speech through the volcengine one-shot HTTP endpoint.
type Service struct {
	cfg      config.SpeechConfig
	endpoint string
	client   *http.Client
}

// NewService creates the TTS client.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		cfg:      cfg,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

type ttsRequest struct {
	App struct {
		AppID   string `json:"appid"`
		Token   string `json:"token"`
		Cluster string `json:"cluster"`
	} `json:"app"`
	User struct {
		UID string `json:"uid"`
	} `json:"user"`
	Audio struct {
		VoiceType   string  `json:"voice_type"`
		Encoding    string  `json:"encoding"`
		SpeedRatio  float32 `json:"speed_ratio,omitempty"`
		VolumeRatio float32 `json:"volume_ratio,omitempty"`
	} `json:"audio"`
	Request struct {
		ReqID     string `json:"reqid"`
		Text      string `json:"text"`
		Operation string `json:"operation"`
	} `json:"request"`
}

type ttsResponse struct {
	ReqID   string `json:"reqid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Synthesize renders text with the given voice and returns the raw audio
// bytes (mp3).
func (s *Service) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("TTS text is empty")
	}

	if voice == "" {
		voice = s.cfg.Voice
	}

	payload := ttsRequest{}
	payload.App.AppID = s.cfg.AppID
	payload.App.Token = s.cfg.AccessToken
	payload.App.Cluster = s.cfg.Cluster
	payload.User.UID = uuid.NewString()
	payload.Audio.VoiceType = voice
	payload.Audio.Encoding = "mp3"
	payload.Audio.SpeedRatio = s.cfg.Speed
	payload.Audio.VolumeRatio = s.cfg.Volume
	payload.Request.ReqID = uuid.NewString()
	payload.Request.Text = text
	payload.Request.Operation = "query"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build TTS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer;"+s.cfg.AccessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read TTS response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS endpoint returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed ttsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode TTS response: %w", err)
	}
	if parsed.Code != ttsSuccessCode {
		return nil, fmt.Errorf("TTS error %d: %s", parsed.Code, parsed.Message)
	}
	if parsed.Data == "" {
		return nil, fmt.Errorf("TTS returned empty audio")
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.Data)
	if err != nil {
		return nil, fmt.Errorf("decode TTS audio payload: %w", err)
	}

	return audio, nil
}
