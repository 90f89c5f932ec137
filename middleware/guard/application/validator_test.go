package application

import (
	"strings"
	"testing"

	"banner-guard/middleware/guard/domain"
)

func validRequest() domain.BannerRequest {
	return domain.BannerRequest{
		Size:    &domain.BannerSize{ID: "linkedin-banner", Name: "LinkedIn Banner", Width: 1584, Height: 396, Category: "social"},
		Theme:   &domain.Theme{ID: "modern", Name: "Modern", Style: "modern", ColorPalette: domain.ColorPalette{Primary: "#3b82f6", Secondary: "#6366f1", Accent: "#ec4899", Text: "#000000"}},
		UseCase: &domain.UseCase{ID: "product-launch", Name: "Product Launch", Category: "marketing"},
	}
}

func TestValidate_EndToEndScenario(t *testing.T) {
	v := NewValidator()

	req := validRequest()
	req.CustomText = "Hello <script>alert(1)</script>"
	if _, err := v.ValidateBannerRequest(req); domain.KindOf(err) != domain.KindContentRejected {
		t.Fatalf("expected ContentRejected, got %v", err)
	}

	req.CustomText = "Hello World"
	out, err := v.ValidateBannerRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CustomText != "Hello World" {
		t.Fatalf("expected customText unchanged, got %q", out.CustomText)
	}
}

func TestValidate_MissingFieldsInOrder(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		field string
		mut   func(*domain.BannerRequest)
	}{
		{"size", func(r *domain.BannerRequest) { r.Size = nil; r.Theme = nil }},
		{"size", func(r *domain.BannerRequest) { r.Size.ID = " " }},
		{"theme", func(r *domain.BannerRequest) { r.Theme = nil }},
		{"useCase", func(r *domain.BannerRequest) { r.UseCase.ID = "" }},
	}
	for _, c := range cases {
		req := validRequest()
		c.mut(&req)
		_, err := v.ValidateBannerRequest(req)
		var e *domain.Error
		if !asError(err, &e) || e.Kind != domain.KindMissingField || e.Field != c.field {
			t.Fatalf("expected MissingField(%s), got %v", c.field, err)
		}
	}
}

func TestValidate_Dimensions(t *testing.T) {
	v := NewValidator()

	bad := [][2]int{{0, 100}, {100, 0}, {-1, 10}, {4001, 10}, {10, 4001}}
	for _, d := range bad {
		req := validRequest()
		req.Size.Width, req.Size.Height = d[0], d[1]
		if _, err := v.ValidateBannerRequest(req); domain.KindOf(err) != domain.KindInvalidDimensions {
			t.Fatalf("expected InvalidDimensions for %v, got %v", d, err)
		}
	}

	good := [][2]int{{1, 1}, {4000, 4000}, {1584, 396}}
	for _, d := range good {
		req := validRequest()
		req.Size.Width, req.Size.Height = d[0], d[1]
		if _, err := v.ValidateBannerRequest(req); err != nil {
			t.Fatalf("expected %v to pass, got %v", d, err)
		}
	}
}

func TestValidate_BackgroundColorPalette(t *testing.T) {
	v := NewValidator()

	req := validRequest()
	req.BackgroundColor = ""
	if _, err := v.ValidateBannerRequest(req); err != nil {
		t.Fatalf("expected empty background to be accepted, got %v", err)
	}

	req.BackgroundColor = "#abc123"
	if _, err := v.ValidateBannerRequest(req); domain.KindOf(err) != domain.KindInvalidEnum {
		t.Fatalf("expected InvalidEnum, got %v", err)
	}

	for _, c := range BackgroundColors {
		req.BackgroundColor = c
		if _, err := v.ValidateBannerRequest(req); err != nil {
			t.Fatalf("expected %q accepted, got %v", c, err)
		}
	}
}

func TestValidate_OtherEnums(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		field string
		mut   func(*domain.BannerRequest)
	}{
		{"fontColor", func(r *domain.BannerRequest) { r.FontColor = "#123456" }},
		{"fontSize", func(r *domain.BannerRequest) { r.FontSize = "13" }},
		{"logoPosition", func(r *domain.BannerRequest) { r.LogoPosition = "auto" }},
		{"logoPosition", func(r *domain.BannerRequest) { r.LogoPosition = "middle" }},
	}
	for _, c := range cases {
		req := validRequest()
		c.mut(&req)
		_, err := v.ValidateBannerRequest(req)
		var e *domain.Error
		if !asError(err, &e) || e.Kind != domain.KindInvalidEnum || e.Field != c.field {
			t.Fatalf("expected InvalidEnum(%s), got %v", c.field, err)
		}
	}

	req := validRequest()
	req.FontColor = "#9ca3af"
	req.FontSize = "48"
	req.LogoPosition = "bottom-right"
	if _, err := v.ValidateBannerRequest(req); err != nil {
		t.Fatalf("expected valid enums, got %v", err)
	}
}

func TestValidate_StopsAtFirstFailure(t *testing.T) {
	v := NewValidator()

	// texto inválido vem antes da cor e das dimensões
	req := validRequest()
	req.Context = "go to javascript:x"
	req.BackgroundColor = "#zzzzzz"
	req.Size.Width = 0
	if _, err := v.ValidateBannerRequest(req); domain.KindOf(err) != domain.KindContentRejected {
		t.Fatalf("expected ContentRejected first, got %v", err)
	}

	req.Context = ""
	if _, err := v.ValidateBannerRequest(req); domain.KindOf(err) != domain.KindInvalidEnum {
		t.Fatalf("expected InvalidEnum before dimensions, got %v", err)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	v := NewValidator()

	req := validRequest()
	req.CustomText = "  <i>Launch</i> day  "
	req.Context = strings.Repeat("x", 1200)

	out, err := v.ValidateBannerRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.CustomText != "  <i>Launch</i> day  " || len(req.Context) != 1200 {
		t.Fatalf("input was mutated")
	}
	if out.CustomText != "Launch day" || len(out.Context) != 1000 {
		t.Fatalf("unexpected output %q / %d", out.CustomText, len(out.Context))
	}

	out.Size.Width = 1
	if req.Size.Width != 1584 {
		t.Fatalf("output shares Size with input")
	}
}

func TestValidate_IsIdempotent(t *testing.T) {
	v := NewValidator()

	req := validRequest()
	req.CustomText = "<b>Spring</b>   sale"
	req.Context = strings.Repeat("ab", 700)
	req.FontSize = "24"

	once, err := v.ValidateBannerRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := v.ValidateBannerRequest(once)
	if err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	if once.CustomText != twice.CustomText || once.Context != twice.Context || *once.Size != *twice.Size {
		t.Fatalf("second validation changed the request")
	}
}
