package application

import (
	"strings"

	"banner-guard/middleware/guard/domain"

	"github.com/go-playground/validator/v10"
)

// Validator aplica as regras do pedido de banner e dos uploads.
// É seguro para uso concorrente.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: newValidate()}
}

// ValidateBannerRequest valida e sanitiza req, devolvendo uma cópia.
//
// Os passos rodam em ordem e param na primeira falha; req nunca é alterado.
// Validar de novo a saída produz o mesmo resultado, exceto quando o corte de
// customText/context deixa espaço na borda: a segunda passada o remove.
func (val *Validator) ValidateBannerRequest(req domain.BannerRequest) (domain.BannerRequest, error) {
	switch {
	case req.Size == nil || strings.TrimSpace(req.Size.ID) == "":
		return domain.BannerRequest{}, domain.MissingField("size")
	case req.Theme == nil || strings.TrimSpace(req.Theme.ID) == "":
		return domain.BannerRequest{}, domain.MissingField("theme")
	case req.UseCase == nil || strings.TrimSpace(req.UseCase.ID) == "":
		return domain.BannerRequest{}, domain.MissingField("useCase")
	}

	out := req.Clone()

	if out.CustomText != "" {
		s, err := sanitizeField("customText", out.CustomText, domain.MaxCustomTextLength)
		if err != nil {
			return domain.BannerRequest{}, err
		}
		out.CustomText = s
	}
	if out.Context != "" {
		s, err := sanitizeField("context", out.Context, domain.MaxContextLength)
		if err != nil {
			return domain.BannerRequest{}, err
		}
		out.Context = s
	}

	if err := val.v.Var(out.BackgroundColor, tagBackgroundColor); err != nil {
		return domain.BannerRequest{}, domain.InvalidEnum("backgroundColor", "Invalid background color selected")
	}
	if err := val.v.Var(out.FontColor, tagFontColor); err != nil {
		return domain.BannerRequest{}, domain.InvalidEnum("fontColor", "Invalid font color selected")
	}
	if err := val.v.Var(out.FontSize, "omitempty,"+tagFontSize); err != nil {
		return domain.BannerRequest{}, domain.InvalidEnum("fontSize", "Invalid font size selected")
	}
	if err := val.v.Var(out.LogoPosition, "omitempty,"+tagLogoPosition); err != nil {
		return domain.BannerRequest{}, domain.InvalidEnum("logoPosition", "Invalid logo position selected")
	}

	if err := val.checkDimension("size.width", out.Size.Width); err != nil {
		return domain.BannerRequest{}, err
	}
	if err := val.checkDimension("size.height", out.Size.Height); err != nil {
		return domain.BannerRequest{}, err
	}

	return out, nil
}

func (val *Validator) checkDimension(field string, n int) error {
	if err := val.v.Var(n, tagDimension); err != nil {
		if n > domain.MaxDimension {
			return domain.InvalidDimensions(field, "Banner dimensions too large (max 4000)")
		}
		return domain.InvalidDimensions(field, "Invalid banner dimensions (must be greater than 0)")
	}
	return nil
}

// ValidateFile checa tamanho, tipo e extensão, nessa ordem.
func (val *Validator) ValidateFile(f domain.UploadedFile) error {
	if err := val.v.Var(f.SizeBytes, tagFileSize); err != nil {
		return domain.FileTooLarge()
	}
	if err := val.v.Var(f.MimeType, tagAllowedMime); err != nil {
		return domain.InvalidFileType("Invalid file type. Only JPEG, PNG, WebP, and GIF images are allowed.")
	}
	if err := val.v.Var(f.Name, tagSafeFilename); err != nil {
		return domain.InvalidFileType("Invalid file type detected.")
	}
	return nil
}
