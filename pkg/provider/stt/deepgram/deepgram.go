// Package deepgram provides a Deepgram-backed STT provider using the
// prerecorded transcription REST API. It implements the stt.Provider
// interface.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/protokollo/protokollo/internal/transcript"
	"github.com/protokollo/protokollo/pkg/provider/stt"
)

const (
	deepgramEndpoint = "https://api.deepgram.com/v1/listen"
	defaultModel     = "nova-2"
	defaultTimeout   = 10 * time.Minute
)

// Option is a functional option for configuring the Deepgram Provider.
type Option func(*Provider)

// WithModel sets the Deepgram model to use (e.g., "nova-2", "base").
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithEndpoint overrides the API endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

// Provider implements stt.Provider backed by the Deepgram prerecorded API.
type Provider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// New creates a new Deepgram Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("deepgram: apiKey must not be empty")
	}
	p := &Provider{
		apiKey:     apiKey,
		model:      defaultModel,
		endpoint:   deepgramEndpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Name implements stt.Provider.
func (p *Provider) Name() string { return "deepgram" }

// Transcribe submits the file as one prerecorded request with diarization,
// smart formatting, utterance timing, and language detection enabled, and
// assembles the speaker-attributed transcript from the returned utterances.
func (p *Provider) Transcribe(ctx context.Context, path string) (transcript.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("deepgram: open audio: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.buildURL(), f)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("deepgram: build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	req.Header.Set("Content-Type", contentType(path))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("deepgram: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return transcript.Result{}, fmt.Errorf("deepgram: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return transcript.Result{}, fmt.Errorf("deepgram: decode response: %w", err)
	}
	return parsed.toResult()
}

func (p *Provider) buildURL() string {
	q := url.Values{}
	q.Set("model", p.model)
	q.Set("diarize", "true")
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	q.Set("paragraphs", "true")
	q.Set("utterances", "true")
	q.Set("detect_language", "true")
	return p.endpoint + "?" + q.Encode()
}

// response mirrors the subset of the Deepgram prerecorded payload the
// pipeline needs.
type response struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Speaker    int     `json:"speaker"`
			Transcript string  `json:"transcript"`
		} `json:"utterances"`
	} `json:"results"`
}

func (r response) toResult() (transcript.Result, error) {
	out := transcript.Result{
		Language:        transcript.LanguageUnknown,
		DurationSeconds: r.Metadata.Duration,
	}
	if len(r.Results.Channels) > 0 {
		ch := r.Results.Channels[0]
		if ch.DetectedLanguage != "" {
			out.Language = ch.DetectedLanguage
		}
		if len(ch.Alternatives) > 0 {
			out.FullText = strings.TrimSpace(ch.Alternatives[0].Transcript)
		}
	}

	var lines []string
	speakers := map[int]struct{}{}
	for _, u := range r.Results.Utterances {
		text := strings.TrimSpace(u.Transcript)
		if text == "" {
			continue
		}
		speakers[u.Speaker] = struct{}{}
		lines = append(lines, fmt.Sprintf("Speaker %d [%s]: %s",
			u.Speaker+1, transcript.FormatTimestamp(u.Start), text))
		if u.End > out.DurationSeconds {
			out.DurationSeconds = u.End
		}
	}
	out.SpeakerText = strings.Join(lines, "\n\n")
	out.SpeakerCount = len(speakers)

	if out.FullText == "" && out.SpeakerText == "" {
		return transcript.Result{}, stt.ErrNoSpeech
	}
	// A transcript without utterances still came from at least one speaker.
	if out.SpeakerCount == 0 {
		out.SpeakerCount = 1
	}
	if out.FullText == "" {
		out.FullText = out.SpeakerText
	}
	if out.SpeakerText == "" {
		out.SpeakerText = out.FullText
	}
	return out, nil
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg", ".oga", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".m4a", ".aac":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
