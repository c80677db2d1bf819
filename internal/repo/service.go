package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const serviceColumns = `id, name, about, short_description, price, available,
	image_url, image_key, slots, instructions, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var (
		s              Service
		imgURL, imgKey *string
	)
	err := row.Scan(&s.ID, &s.Name, &s.About, &s.ShortDescription, &s.Price, &s.Available,
		&imgURL, &imgKey, &s.Slots, &s.Instructions, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	s.ImageURL = deref(imgURL)
	s.ImageKey = deref(imgKey)
	if s.Slots == nil {
		s.Slots = map[string][]string{}
	}
	if s.Instructions == nil {
		s.Instructions = []string{}
	}
	return &s, nil
}

func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := c.db.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	out := []Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("list services: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (c *Client) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return scanService(c.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
}

func (c *Client) CreateService(ctx context.Context, s *Service) (*Service, error) {
	id := s.ID
	if id == uuid.Nil {
		id = uuid.Must(uuid.NewV7())
	}

	q := `INSERT INTO services (id, name, about, short_description, price, available,
			image_url, image_key, slots, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + serviceColumns

	out, err := scanService(c.db.QueryRow(ctx, q,
		id, s.Name, s.About, s.ShortDescription, s.Price, s.Available,
		nullString(s.ImageURL), nullString(s.ImageKey), nonNilSlots(s.Slots), nonNilStrings(s.Instructions),
	))
	if err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateService(ctx context.Context, s *Service) (*Service, error) {
	q := `UPDATE services SET
			name = $2, about = $3, short_description = $4, price = $5, available = $6,
			image_url = $7, image_key = $8, slots = $9, instructions = $10, updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceColumns

	out, err := scanService(c.db.QueryRow(ctx, q,
		s.ID, s.Name, s.About, s.ShortDescription, s.Price, s.Available,
		nullString(s.ImageURL), nullString(s.ImageKey), nonNilSlots(s.Slots), nonNilStrings(s.Instructions),
	))
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNilSlots(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
