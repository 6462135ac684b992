package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/radreport/radreport/internal/report/domain"
)

// PGStore keeps templates in the report_templates table.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists report_templates (
    name       text primary key,
    title      text not null,
    body       text not null,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure report_templates: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, name string) (*domain.Template, error) {
	const q = `
select name, title, body
from report_templates
where name = $1;
`
	t := domain.Template{Source: domain.TemplateSourceDatabase}
	err := s.db.QueryRow(ctx, q, normalizeName(name)).Scan(&t.Name, &t.Title, &t.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (s *PGStore) List(ctx context.Context) ([]domain.Template, error) {
	const q = `
select name, title, body
from report_templates
order by name;
`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Template, 0, 16)
	for rows.Next() {
		t := domain.Template{Source: domain.TemplateSourceDatabase}
		if err := rows.Scan(&t.Name, &t.Title, &t.Body); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PGStore) Upsert(ctx context.Context, t domain.Template) error {
	name := normalizeName(t.Name)
	if name == "" {
		return fmt.Errorf("template name required")
	}
	if t.Body == "" {
		return fmt.Errorf("template body required")
	}
	if t.Title == "" {
		t.Title = t.Name
	}

	const q = `
insert into report_templates (name, title, body)
values ($1, $2, $3)
on conflict (name) do update set
    title = excluded.title,
    body = excluded.body,
    updated_at = now();
`
	if _, err := s.db.Exec(ctx, q, name, t.Title, t.Body); err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}
