// Package gallery persiste os banners gerados (imagem + pedido validado)
// numa tabela do Supabase via PostgREST.
package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"banner-guard/middleware/guard/domain"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	DefaultTable       = "banners"
	DefaultPublicLimit = 20
	MaxPublicLimit     = 100
)

var ErrNotFound = errors.New("gallery: banner not found")

// Banner é um registro da galeria.
type Banner struct {
	ID        string               `json:"id,omitempty"`
	UserID    string               `json:"user_id"`
	ImageURL  string               `json:"image_url"`
	Request   domain.BannerRequest `json:"request"`
	Tags      []string             `json:"tags"`
	IsPublic  bool                 `json:"is_public"`
	CreatedAt time.Time            `json:"created_at,omitempty"`
}

// insertRow omite id e created_at: o banco preenche.
type insertRow struct {
	UserID   string               `json:"user_id"`
	ImageURL string               `json:"image_url"`
	Request  domain.BannerRequest `json:"request"`
	Tags     []string             `json:"tags"`
	IsPublic bool                 `json:"is_public"`
}

type Repository struct {
	client *supabase.Client
	table  string
}

func NewRepository(url, serviceKey string) (*Repository, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("gallery: new supabase client: %w", err)
	}
	return &Repository{client: client, table: DefaultTable}, nil
}

// Save grava b e devolve o registro como ficou no banco.
func (r *Repository) Save(ctx context.Context, b Banner) (Banner, error) {
	if err := ctx.Err(); err != nil {
		return Banner{}, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}

	data, _, err := r.client.From(r.table).
		Insert(insertRow{
			UserID:   b.UserID,
			ImageURL: b.ImageURL,
			Request:  b.Request,
			Tags:     b.Tags,
			IsPublic: b.IsPublic,
		}, false, "", "representation", "").
		Execute()
	if err != nil {
		return Banner{}, fmt.Errorf("gallery: insert: %w", err)
	}

	rows, err := decode(data)
	if err != nil {
		return Banner{}, err
	}
	if len(rows) == 0 {
		return Banner{}, errors.New("gallery: insert returned no rows")
	}
	return rows[0], nil
}

// ListByUser devolve os banners do usuário, mais novos primeiro.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Banner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.client.From(r.table).
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("gallery: list by user: %w", err)
	}
	return decode(data)
}

// ListPublic devolve banners públicos, mais novos primeiro.
// limit fora de (0, MaxPublicLimit] é ajustado.
func (r *Repository) ListPublic(ctx context.Context, limit int) ([]Banner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.client.From(r.table).
		Select("*", "exact", false).
		Eq("is_public", "true").
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(ClampLimit(limit), "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("gallery: list public: %w", err)
	}
	return decode(data)
}

// Delete remove o banner id se ele for de userID e devolve o registro
// removido, para quem chama apagar também a imagem.
func (r *Repository) Delete(ctx context.Context, userID, id string) (Banner, error) {
	if err := ctx.Err(); err != nil {
		return Banner{}, err
	}

	data, _, err := r.client.From(r.table).
		Delete("representation", "").
		Eq("id", id).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return Banner{}, fmt.Errorf("gallery: delete: %w", err)
	}

	rows, err := decode(data)
	if err != nil {
		return Banner{}, err
	}
	if len(rows) == 0 {
		return Banner{}, ErrNotFound
	}
	return rows[0], nil
}

func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultPublicLimit
	case n > MaxPublicLimit:
		return MaxPublicLimit
	default:
		return n
	}
}

func decode(data []byte) ([]Banner, error) {
	var rows []Banner
	if len(data) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("gallery: decode rows: %w", err)
	}
	return rows, nil
}
