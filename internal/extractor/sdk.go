package extractor

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"audio-insight-go/internal/types"
)

// SDKClient issues the same schema-constrained call through the Go SDK.
type SDKClient struct {
	model string
	opts  []option.ClientOption
	log   *logrus.Entry
}

func NewSDKClient(model string, log *logrus.Entry, opts ...option.ClientOption) *SDKClient {
	return &SDKClient{
		model: model,
		opts:  opts,
		log:   log.WithField("component", "extractor.sdk"),
	}
}

// Analyze builds a client for the session's credential and makes one call.
func (c *SDKClient) Analyze(ctx context.Context, credential string, req types.AnalysisRequest) (types.ExtractionResult, error) {
	var empty types.ExtractionResult
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return empty, newError(KindRequest, errors.New("api key required"))
	}
	audio, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return empty, newError(KindRequest, errors.Wrap(err, "decode payload"))
	}

	opts := append([]option.ClientOption{option.WithAPIKey(credential)}, c.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return empty, newError(KindTransport, errors.Wrap(err, "genai client"))
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.ResponseMIMEType = jsonResponseType
	model.ResponseSchema = sdkSchema(ResponseSchema())

	c.log.WithFields(logrus.Fields{"model": c.model, "mime_type": req.MimeType}).Debug("sending GenerateContent")
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: req.MimeType, Data: audio},
		genai.Text(req.Instruction),
	)
	if err != nil {
		return empty, newError(KindTransport, errors.Wrap(err, "GenerateContent"))
	}
	return decodeSDKResponse(resp)
}

func decodeSDKResponse(resp *genai.GenerateContentResponse) (types.ExtractionResult, error) {
	text := sdkResponseText(resp)
	if text == "" {
		return types.ExtractionResult{}, newError(KindEmpty, errors.New("no response from model"))
	}
	return Decode(text)
}

func sdkResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}

var sdkTypes = map[string]genai.Type{
	schemaObject: genai.TypeObject,
	schemaString: genai.TypeString,
	schemaNumber: genai.TypeNumber,
}

// sdkSchema converts the REST schema so both backends declare one contract.
func sdkSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     sdkTypes[s.Type],
		Enum:     s.Enum,
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = sdkSchema(prop)
		}
	}
	return out
}
