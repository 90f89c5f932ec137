// Package gemini gera a imagem do banner no Gemini, tentando uma lista de
// modelos em ordem até algum devolver uma imagem.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"banner-guard/middleware/guard/domain"

	"google.golang.org/genai"
)

var DefaultModels = []string{
	"gemini-2.5-flash-image-preview",
	"gemini-2.0-flash-exp",
	"gemini-1.5-flash",
}

var (
	ErrNoImage  = errors.New("gemini: response had no image")
	ErrNoModels = errors.New("gemini: no models configured")
)

// Image é o resultado bruto da geração.
type Image struct {
	Data     []byte
	MimeType string
	Model    string
}

// contentGenerator é o recorte de genai.Models que usamos.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models []string
	gen    contentGenerator
	logger *slog.Logger
}

func New(ctx context.Context, apiKey string, models []string, logger *slog.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return newClient(gc.Models, models, logger), nil
}

func newClient(gen contentGenerator, models []string, logger *slog.Logger) *Client {
	if len(models) == 0 {
		models = DefaultModels
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{models: models, gen: gen, logger: logger}
}

// Generate monta o prompt de req (já validado) e devolve a primeira imagem obtida.
func (c *Client) Generate(ctx context.Context, req domain.BannerRequest) (Image, error) {
	if len(c.models) == 0 {
		return Image{}, ErrNoModels
	}

	prompt := BuildPrompt(req)
	contents := []*genai.Content{{Parts: []*genai.Part{genai.NewPartFromText(prompt)}}}
	cfg := &genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}}

	var lastErr error
	for _, model := range c.models {
		if err := ctx.Err(); err != nil {
			return Image{}, err
		}

		resp, err := c.gen.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			c.logger.Warn("gemini model failed", "model", model, "err", err)
			lastErr = fmt.Errorf("gemini: model %s: %w", model, err)
			continue
		}

		img, ok := firstImage(resp)
		if !ok {
			c.logger.Warn("gemini model returned no image", "model", model)
			lastErr = fmt.Errorf("gemini: model %s: %w", model, ErrNoImage)
			continue
		}
		img.Model = model
		return img, nil
	}
	return Image{}, lastErr
}

func firstImage(resp *genai.GenerateContentResponse) (Image, bool) {
	if resp == nil {
		return Image{}, false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return Image{Data: part.InlineData.Data, MimeType: mime}, true
		}
	}
	return Image{}, false
}
