package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Paletas aceitas. "" significa automático.
var (
	BackgroundColors = []string{
		"", "#ffffff", "#f3f4f6", "#6b7280", "#374151", "#000000",
		"#3b82f6", "#6366f1", "#8b5cf6", "#ec4899", "#ef4444",
		"#f97316", "#eab308", "#22c55e", "#14b8a6", "#06b6d4",
	}
	FontColors = []string{
		"", "#000000", "#ffffff", "#374151", "#6b7280", "#9ca3af",
		"#3b82f6", "#6366f1", "#8b5cf6", "#ec4899", "#ef4444",
		"#f97316", "#eab308", "#22c55e", "#14b8a6", "#06b6d4",
	}
	FontSizes     = []string{"12", "14", "16", "18", "20", "24", "28", "32", "36", "48"}
	LogoPositions = []string{"top-left", "top-right", "bottom-left", "bottom-right", "center"}

	AllowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

	DangerousExtensions = []string{
		".exe", ".bat", ".cmd", ".scr", ".pif", ".com", ".js", ".html",
		".htm", ".php", ".asp", ".jsp", ".py", ".sh", ".ps1",
	}
)

// Tags registradas no validator.
const (
	tagBackgroundColor = "banner_bg"
	tagFontColor       = "banner_font_color"
	tagFontSize        = "banner_font_size"
	tagLogoPosition    = "banner_logo_position"
	tagSafeFilename    = "safe_filename"
	tagAllowedMime     = "image_mime"

	tagDimension = "gt=0,lte=4000"
	tagFileSize  = "lte=5242880"
)

func oneOf(values []string) validator.Func {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

func safeFilename(fl validator.FieldLevel) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fl.Field().String())))
	for _, bad := range DangerousExtensions {
		if ext == bad {
			return false
		}
	}
	return true
}

// newValidate registra as tags; falha de registro é erro de programação.
func newValidate() *validator.Validate {
	v := validator.New()
	rules := []struct {
		tag string
		fn  validator.Func
	}{
		{tagBackgroundColor, oneOf(BackgroundColors)},
		{tagFontColor, oneOf(FontColors)},
		{tagFontSize, oneOf(FontSizes)},
		{tagLogoPosition, oneOf(LogoPositions)},
		{tagSafeFilename, safeFilename},
		{tagAllowedMime, oneOf(AllowedMimeTypes)},
	}
	for _, r := range rules {
		mustRegister(v, r.tag, r.fn)
	}
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("guard: register validation %q: %v", tag, err))
	}
}
