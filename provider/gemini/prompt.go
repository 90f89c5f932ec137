package gemini

import (
	"strconv"
	"strings"

	"banner-guard/middleware/guard/domain"
)

// BuildPrompt descreve o banner para o modelo. Campos opcionais vazios
// ficam de fora.
func BuildPrompt(req domain.BannerRequest) string {
	var b strings.Builder

	var useCase string
	if req.UseCase != nil {
		useCase = req.UseCase.Name
	}
	var w, h int
	if req.Size != nil {
		w, h = req.Size.Width, req.Size.Height
	}
	b.WriteString("Create a professional banner image for " + useCase + ", " +
		strconv.Itoa(w) + "x" + strconv.Itoa(h) + " pixels. ")

	if req.CustomText != "" {
		b.WriteString(`The main text should be: "` + req.CustomText + `". `)
	}
	if req.Context != "" {
		b.WriteString("Additional context: " + req.Context + ". ")
	}

	if req.Theme != nil {
		b.WriteString("Style: " + req.Theme.Style + " theme with " + req.Theme.ColorPalette.Primary + " as primary color. ")
	}
	if req.BackgroundColor != "" {
		b.WriteString("Background color: " + req.BackgroundColor + ". ")
	}
	if req.FontColor != "" {
		b.WriteString("Text color: " + req.FontColor + ". ")
	}
	if req.FontSize != "" {
		b.WriteString("Font size should be " + req.FontSize + "px. ")
	}
	if req.LogoPosition != "" {
		b.WriteString("Leave space for a logo to be positioned at " + req.LogoPosition + ". ")
	}

	b.WriteString("The banner should be professional, high-quality, and suitable for online use. No text overlays on the logo area.")
	return b.String()
}
