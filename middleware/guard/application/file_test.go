package application

import (
	"testing"

	"banner-guard/middleware/guard/domain"
)

func TestValidateFile(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		file domain.UploadedFile
		want domain.Kind
	}{
		{"6MiB png", domain.UploadedFile{Name: "big.png", SizeBytes: 6 << 20, MimeType: "image/png"}, domain.KindFileTooLarge},
		{"exe named png mime", domain.UploadedFile{Name: "payload.exe", SizeBytes: 1024, MimeType: "image/png"}, domain.KindInvalidFileType},
		{"upper case ext", domain.UploadedFile{Name: "RUN.PS1", SizeBytes: 10, MimeType: "image/gif"}, domain.KindInvalidFileType},
		{"svg mime", domain.UploadedFile{Name: "logo.svg", SizeBytes: 10, MimeType: "image/svg+xml"}, domain.KindInvalidFileType},
		{"size wins over type", domain.UploadedFile{Name: "x.exe", SizeBytes: 6 << 20, MimeType: "text/html"}, domain.KindFileTooLarge},
		{"2MiB png", domain.UploadedFile{Name: "logo.png", SizeBytes: 2 << 20, MimeType: "image/png"}, domain.KindUnknown},
		{"exactly 5MiB", domain.UploadedFile{Name: "a.webp", SizeBytes: 5 << 20, MimeType: "image/webp"}, domain.KindUnknown},
	}
	for _, c := range cases {
		err := v.ValidateFile(c.file)
		if c.want == domain.KindUnknown {
			if err != nil {
				t.Fatalf("%s: expected ok, got %v", c.name, err)
			}
			continue
		}
		if domain.KindOf(err) != c.want {
			t.Fatalf("%s: expected %s, got %v", c.name, c.want, err)
		}
	}
}

func TestValidateFile_StatusCodes(t *testing.T) {
	v := NewValidator()

	err := v.ValidateFile(domain.UploadedFile{Name: "big.png", SizeBytes: 6 << 20, MimeType: "image/png"})
	var e *domain.Error
	if !asError(err, &e) || e.HTTPStatus() != 413 {
		t.Fatalf("expected 413, got %v", err)
	}

	err = v.ValidateFile(domain.UploadedFile{Name: "payload.exe", SizeBytes: 1024, MimeType: "image/png"})
	if !asError(err, &e) || e.HTTPStatus() != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}
