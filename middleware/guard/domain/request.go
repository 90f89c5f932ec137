package domain

// Limites dos campos de texto e das dimensões.
const (
	MaxCustomTextLength = 500
	MaxContextLength    = 1000
	MaxDimension        = 4000
	MaxFileSize         = 5 * 1024 * 1024
)

type BannerSize struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Category string `json:"category,omitempty"`
}

type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text"`
}

type Theme struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Style        string       `json:"style"`
	ColorPalette ColorPalette `json:"colorPalette"`
	FontFamily   string       `json:"fontFamily,omitempty"`
}

type UseCase struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// BannerRequest é o pedido de geração como chega do cliente.
//
// Campos opcionais vazios significam "não informado" (o gerador decide).
// LogoURL só é preenchido pelo servidor depois que o logo foi gravado.
type BannerRequest struct {
	Size            *BannerSize `json:"size"`
	Theme           *Theme      `json:"theme"`
	UseCase         *UseCase    `json:"useCase"`
	CustomText      string      `json:"customText,omitempty"`
	Context         string      `json:"context,omitempty"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	FontColor       string      `json:"fontColor,omitempty"`
	FontSize        string      `json:"fontSize,omitempty"`
	LogoPosition    string      `json:"logoPosition,omitempty"`
	LogoURL         string      `json:"logoUrl,omitempty"`
}

// Clone devolve uma cópia profunda (os ponteiros não são compartilhados).
func (r BannerRequest) Clone() BannerRequest {
	out := r
	if r.Size != nil {
		s := *r.Size
		out.Size = &s
	}
	if r.Theme != nil {
		t := *r.Theme
		out.Theme = &t
	}
	if r.UseCase != nil {
		u := *r.UseCase
		out.UseCase = &u
	}
	return out
}

// UploadedFile é a visão de metadados de um upload.
type UploadedFile struct {
	Name      string
	SizeBytes int64
	MimeType  string
}
