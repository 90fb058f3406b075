package llm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/mcqbot/internal/store"
)

// ImageRequest asks for one illustration.
type ImageRequest struct {
	Purpose string
	Prompt  string
}

// ImageProvider turns a prompt into a hosted image URL.
type ImageProvider interface {
	Image(ctx context.Context, req ImageRequest) (string, error)
	Model() string
}

type openaiImages struct {
	client *openai.Client
	model  string
	size   string
}

// NewOpenAIImages creates an ImageProvider on the OpenAI images API.
func NewOpenAIImages(cfg ImageConfig) (ImageProvider, error) {
	if cfg.APIKey == "" {
		return nil, errMissingKey
	}
	p := &openaiImages{
		client: openaiClient(cfg.APIKey, cfg.BaseURL),
		model:  cfg.Model,
		size:   cfg.Size,
	}
	if p.model == "" {
		p.model = openai.CreateImageModelDallE3
	}
	if p.size == "" {
		p.size = openai.CreateImageSize1024x1024
	}
	return p, nil
}

func (p *openaiImages) Model() string { return p.model }

func (p *openaiImages) Image(ctx context.Context, req ImageRequest) (string, error) {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.model,
		N:              1,
		Size:           p.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fromStatus("openai-images", apiErr.HTTPStatusCode, nil, err)
		}
		return "", fromStatus("openai-images", 0, nil, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", &Error{Kind: Malformed, Backend: "openai-images", Err: errors.New("no image url")}
	}
	return resp.Data[0].URL, nil
}

type recordedImages struct {
	ImageProvider
	rec    Recorder
	logger *slog.Logger
}

// RecordImages records image calls the way WithRecorder records
// completions. The response body holds the image URL.
func RecordImages(p ImageProvider, rec Recorder, logger *slog.Logger) ImageProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &recordedImages{ImageProvider: p, rec: rec, logger: logger}
}

func (r *recordedImages) Image(ctx context.Context, req ImageRequest) (string, error) {
	start := time.Now()
	url, err := r.ImageProvider.Image(ctx, req)
	ev := store.LLMRequestEventData{
		Provider:     "openai-images",
		Model:        r.Model(),
		Purpose:      req.Purpose,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
		RequestBody:  req.Prompt,
		ResponseBody: url,
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	if rerr := r.rec.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
		r.logger.Warn("record image event", "error", rerr)
	}
	return url, err
}

// ScriptedImages plays back URLs in order and records prompts. Err, when
// set, fails every call.
type ScriptedImages struct {
	mu       sync.Mutex
	urls     []string
	requests []ImageRequest
	Err      error
}

// NewScriptedImages creates a ScriptedImages provider.
func NewScriptedImages(urls ...string) *ScriptedImages {
	return &ScriptedImages{urls: urls}
}

func (s *ScriptedImages) Model() string { return "scripted-images" }

func (s *ScriptedImages) Image(_ context.Context, req ImageRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.urls) == 0 {
		return "", &Error{Kind: Unavailable, Backend: "mock", Err: errScriptExhausted}
	}
	url := s.urls[0]
	s.urls = s.urls[1:]
	return url, nil
}

// Requests returns a copy of the requests seen so far.
func (s *ScriptedImages) Requests() []ImageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ImageRequest(nil), s.requests...)
}
