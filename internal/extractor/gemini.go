package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"audio-insight-go/internal/types"
)

const (
	apiKeyHeader     = "x-goog-api-key"
	jsonResponseType = "application/json"
	maxErrorSnippet  = 512
)

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        *logrus.Entry
}

type Option func(*GeminiClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *GeminiClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the transport timeout. Zero keeps the client default.
func WithTimeout(d time.Duration) Option {
	return func(c *GeminiClient) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func NewGeminiClient(baseURL, model string, log *logrus.Entry, opts ...Option) *GeminiClient {
	c := &GeminiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: http.DefaultClient,
		log:        log.WithField("component", "extractor.gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func buildRequest(req types.AnalysisRequest) generateContentRequest {
	return generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: req.MimeType, Data: req.Data}},
				{Text: req.Instruction},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: jsonResponseType,
			ResponseSchema:   ResponseSchema(),
		},
	}
}

// Analyze sends one generateContent request. It does not retry.
func (c *GeminiClient) Analyze(ctx context.Context, credential string, req types.AnalysisRequest) (types.ExtractionResult, error) {
	var empty types.ExtractionResult
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return empty, newError(KindRequest, errors.New("api key required"))
	}

	data, err := json.Marshal(buildRequest(req))
	if err != nil {
		return empty, newError(KindRequest, errors.Wrap(err, "encode request"))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(data))
	if err != nil {
		return empty, newError(KindRequest, errors.Wrap(err, "build request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, credential)

	log := c.log.WithFields(logrus.Fields{
		"model":       c.model,
		"mime_type":   req.MimeType,
		"payload_len": len(data),
	})
	log.Debug("sending generateContent request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return empty, newError(KindTransport, errors.Wrap(err, "generateContent"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, newError(KindTransport, errors.Wrap(err, "read response"))
	}
	log.WithField("http_status", resp.StatusCode).Debug("generateContent response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return empty, &AdapterError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.New(snippet(body)),
		}
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return empty, newError(KindDecode, errors.Wrap(err, "decode envelope"))
	}
	text := responseText(parsed)
	if text == "" {
		reason := parsed.PromptFeedback.BlockReason
		if reason == "" && len(parsed.Candidates) > 0 {
			reason = parsed.Candidates[0].FinishReason
		}
		return empty, newError(KindEmpty, fmt.Errorf("no response from model (reason=%q)", reason))
	}
	return Decode(text)
}

func responseText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		cut := maxErrorSnippet
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	if s == "" {
		s = "empty body"
	}
	return s
}
