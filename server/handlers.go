package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"banner-guard/gallery"
	"banner-guard/middleware/auth"
	"banner-guard/middleware/guard"
	guardapp "banner-guard/middleware/guard/application"
	guarddomain "banner-guard/middleware/guard/domain"
	"banner-guard/storage"

	"github.com/gorilla/mux"
)

const (
	maxJSONBody     = 1 << 20
	maxMultipartMem = guarddomain.MaxFileSize + 1<<20

	maxTags      = 10
	maxTagLength = 50
)

func (h *handlers) generateBanner(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	var req guarddomain.BannerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		guard.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	validated, err := h.Validator.ValidateBannerRequest(req)
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}
	if err := h.checkLogoURL(uid, validated.LogoURL); err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}

	img, err := h.Generator.Generate(r.Context(), validated)
	if err != nil {
		h.Logger.Error("banner generation failed", "user_id", uid, "err", err)
		guard.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate banner"})
		return
	}

	obj, err := h.Objects.Put(r.Context(), storage.FolderAIGenerated, uid, "banner.png", img.MimeType,
		bytes.NewReader(img.Data), int64(len(img.Data)))
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}

	resp := map[string]any{"success": true, "imageUrl": obj.URL}
	if h.Gallery != nil {
		saved, err := h.Gallery.Save(r.Context(), gallery.Banner{
			UserID:   uid,
			ImageURL: obj.URL,
			Request:  validated,
		})
		if err != nil {
			guard.WriteError(w, r, h.Logger, err)
			return
		}
		resp["id"] = saved.ID
	}

	h.Logger.Info("banner generated", "user_id", uid, "model", img.Model, "bytes", len(img.Data))
	guard.WriteJSON(w, http.StatusOK, resp)
}

// upload trata o multipart de um campo de arquivo e grava em folder.
// urlField é o nome da URL na resposta (logoUrl ou imageUrl).
func (h *handlers) upload(field, folder, urlField string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := auth.UserIDFrom(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartMem)
		if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				guard.WriteError(w, r, h.Logger, guarddomain.FileTooLarge())
				return
			}
			guard.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
			return
		}

		file, hdr, err := r.FormFile(field)
		if err != nil {
			guard.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
			return
		}
		defer func() { _ = file.Close() }()

		meta := guarddomain.UploadedFile{
			Name:      hdr.Filename,
			SizeBytes: hdr.Size,
			MimeType:  hdr.Header.Get("Content-Type"),
		}
		if err := h.Validator.ValidateFile(meta); err != nil {
			guard.WriteError(w, r, h.Logger, err)
			return
		}

		obj, err := h.Objects.Put(r.Context(), folder, uid, meta.Name, meta.MimeType, file, meta.SizeBytes)
		if err != nil {
			guard.WriteError(w, r, h.Logger, err)
			return
		}

		guard.WriteJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			urlField:   obj.URL,
			"fileName": obj.Key,
		})
	})
}

type saveRequest struct {
	ImageURL   string                     `json:"imageUrl"`
	BannerData *guarddomain.BannerRequest `json:"bannerData"`
	Tags       []string                   `json:"tags"`
	IsPublic   bool                       `json:"isPublic"`
}

func (h *handlers) saveToGallery(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	var body saveRequest
	if err := decodeJSON(w, r, &body); err != nil {
		guard.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(body.ImageURL) == "" || body.BannerData == nil {
		guard.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required data"})
		return
	}
	if !isHTTPURL(body.ImageURL) {
		guard.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid image URL"})
		return
	}

	validated, err := h.Validator.ValidateBannerRequest(*body.BannerData)
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}
	if err := h.checkLogoURL(uid, validated.LogoURL); err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}

	tags, err := cleanTags(body.Tags)
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}

	saved, err := h.Gallery.Save(r.Context(), gallery.Banner{
		UserID:   uid,
		ImageURL: body.ImageURL,
		Request:  validated,
		Tags:     tags,
		IsPublic: body.IsPublic,
	})
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}

	guard.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"id":            saved.ID,
		"validatedData": validated,
	})
}

func (h *handlers) listMine(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())

	banners, err := h.Gallery.ListByUser(r.Context(), uid)
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}
	guard.WriteJSON(w, http.StatusOK, map[string]any{"banners": nonNil(banners)})
}

func (h *handlers) listPublic(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	banners, err := h.Gallery.ListPublic(r.Context(), gallery.ClampLimit(limit))
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}
	guard.WriteJSON(w, http.StatusOK, map[string]any{"banners": nonNil(banners)})
}

func (h *handlers) deleteBanner(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFrom(r.Context())
	id := mux.Vars(r)["id"]

	removed, err := h.Gallery.Delete(r.Context(), uid, id)
	if errors.Is(err, gallery.ErrNotFound) {
		guard.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Banner not found"})
		return
	}
	if err != nil {
		guard.WriteError(w, r, h.Logger, err)
		return
	}

	// a imagem só é apagada quando está no nosso bucket, sob o usuário;
	// falha aqui não desfaz a remoção do registro
	if key, ok := h.ownedObjectKey(uid, removed.ImageURL); ok {
		if err := h.Objects.Delete(r.Context(), key); err != nil {
			h.Logger.Error("banner image delete failed", "user_id", uid, "banner_id", id, "err", err)
		}
	}
	guard.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedObjectKey devolve a chave do objeto de raw se raw for uma URL pública
// do bucket no formato {pasta}/{uid}/{arquivo} e uid for o dono.
func (h *handlers) ownedObjectKey(uid, raw string) (string, bool) {
	if uid == "" || !isHTTPURL(raw) {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery != "" || u.Fragment != "" {
		return "", false
	}
	key, ok := strings.CutPrefix(raw, h.Objects.PublicURL(""))
	if !ok || key == "" || path.Clean(key) != key {
		return "", false
	}
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[1] != uid || parts[2] == "" {
		return "", false
	}
	return key, true
}

// checkLogoURL aceita logoUrl vazio ou um logo que o próprio usuário enviou.
func (h *handlers) checkLogoURL(uid, raw string) error {
	if raw == "" {
		return nil
	}
	key, ok := h.ownedObjectKey(uid, raw)
	if !ok || !strings.HasPrefix(key, storage.FolderLogos+"/") {
		return guarddomain.InvalidEnum("logoUrl", "Invalid logo URL")
	}
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// cleanTags sanitiza cada tag, descarta vazias e guarda no máximo maxTags.
func cleanTags(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, t := range in {
		s, err := guardapp.Sanitize(t, maxTagLength)
		if err != nil {
			return nil, err
		}
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxTags {
			break
		}
	}
	return out, nil
}

func nonNil(b []gallery.Banner) []gallery.Banner {
	if b == nil {
		return []gallery.Banner{}
	}
	return b
}
