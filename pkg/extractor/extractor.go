// Package extractor turns an uploaded price sheet (image, CSV, text or HTML)
// into candidate catalog and coefficient records using a Gemini model.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("extractor: not configured")
	// ErrEmptyExtraction is returned when the model found no record.
	ErrEmptyExtraction = errors.New("extractor: no records extracted")
	// ErrMalformedExtraction is returned when the model output cannot be used.
	ErrMalformedExtraction = errors.New("extractor: malformed model output")
	// ErrUnsupportedDocument is returned for empty uploads or unknown binary types.
	ErrUnsupportedDocument = errors.New("extractor: unsupported document")
)

const prompt = `Analise o arquivo e extraia dados sobre motocicletas e coeficientes de financiamento. Retorne JSON estruturado. ` +
	`A chave 'motorcycles' deve ser um array de objetos com 'name' (string) e 'price' (número em centavos). ` +
	`A chave 'coefficients' deve ser um array de objetos com 'term' (número), 'downPaymentMin' (número), ` +
	`'downPaymentMax' (número), 'value' (número), 'motorcycle' (string, ex: "Bros 160 ABS" ou "Todos" para todos os modelos), ` +
	`e 'bank' (string, ex: "Banco Honda").`

// Document is an uploaded file.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Extractor converts a document into a candidate batch.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (*Batch, error)
}

// GeminiExtractor calls the Gemini API with a fixed response schema.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates an extractor. An empty apiKey yields
// ErrNotConfigured.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("extractor: create client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract sends the document and the extraction prompt to the model and
// parses its JSON answer.
func (e *GeminiExtractor) Extract(ctx context.Context, doc Document) (*Batch, error) {
	part, err := documentPart(doc)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{part, genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("extractor: generate: %w", err)
	}
	return ParseResponse(resp.Text())
}

// documentPart sends images inline, flattens HTML to its table text and
// passes anything textual as is.
func documentPart(doc Document) (*genai.Part, error) {
	if len(doc.Data) == 0 {
		return nil, ErrUnsupportedDocument
	}
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(doc.MIMEType, ";", 2)[0]))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return genai.NewPartFromBytes(doc.Data, mime), nil
	case mime == "text/html":
		text, err := FlattenHTML(doc.Data)
		if err != nil {
			return nil, err
		}
		return genai.NewPartFromText(text), nil
	case strings.HasPrefix(mime, "text/"), mime == "application/csv", mime == "application/json", mime == "":
		return genai.NewPartFromText(string(doc.Data)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, mime)
	}
}

func responseSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	num := &genai.Schema{Type: genai.TypeNumber}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"motorcycles": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"name": str, "price": num},
					Required:   []string{"name", "price"},
				},
			},
			"coefficients": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"term":           num,
						"downPaymentMin": num,
						"downPaymentMax": num,
						"value":          num,
						"motorcycle":     str,
						"bank":           str,
					},
					Required: []string{"term", "downPaymentMin", "downPaymentMax", "value", "motorcycle", "bank"},
				},
			},
		},
	}
}
