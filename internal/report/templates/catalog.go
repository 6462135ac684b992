package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/radreport/radreport/internal/logging"
	"github.com/radreport/radreport/internal/report/domain"
	"github.com/radreport/radreport/internal/report/prompt"
)

// Store is a persistent template source consulted before local templates.
type Store interface {
	Get(ctx context.Context, name string) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
}

// Catalog resolves template selectors to template text.
type Catalog struct {
	mu    sync.RWMutex
	local map[string]domain.Template
	store Store
}

// NewCatalog creates a catalog holding the built-in chest CT template.
// store may be nil.
func NewCatalog(store Store) *Catalog {
	c := &Catalog{
		local: make(map[string]domain.Template),
		store: store,
	}
	c.local[prompt.DefaultTemplateName] = domain.Template{
		Name:   prompt.DefaultTemplateName,
		Title:  "CT Chest",
		Body:   prompt.DefaultTemplate,
		Source: domain.TemplateSourceBuiltin,
	}
	return c
}

// Add registers or replaces a local template.
func (c *Catalog) Add(t domain.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[normalizeName(t.Name)] = t
}

// Resolve turns a selector into template text. An empty selector yields the
// default template; a selector naming no known template is returned as-is,
// so callers may paste a template body directly.
func (c *Catalog) Resolve(ctx context.Context, selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return prompt.DefaultTemplate, nil
	}

	name := normalizeName(selector)
	if c.store != nil {
		t, err := c.store.Get(ctx, name)
		switch {
		case err == nil:
			return t.Body, nil
		case errors.Is(err, domain.ErrTemplateNotFound):
		default:
			logging.FromContext(ctx).LogWarnf("resolve_template", "template store lookup failed for %q: %v", name, err)
		}
	}

	c.mu.RLock()
	t, ok := c.local[name]
	c.mu.RUnlock()
	if ok {
		return t.Body, nil
	}

	return selector, nil
}

// List returns every known template sorted by name. Store entries shadow
// local ones with the same name.
func (c *Catalog) List(ctx context.Context) ([]domain.Template, error) {
	byName := make(map[string]domain.Template)

	c.mu.RLock()
	for name, t := range c.local {
		byName[name] = t
	}
	c.mu.RUnlock()

	if c.store != nil {
		stored, err := c.store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range stored {
			byName[normalizeName(t.Name)] = t
		}
	}

	out := make([]domain.Template, 0, len(byName))
	for _, t := range byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Upserter persists templates.
type Upserter interface {
	Upsert(ctx context.Context, t domain.Template) error
}

// Publish writes every file-sourced local template to dst and returns how
// many were written.
func (c *Catalog) Publish(ctx context.Context, dst Upserter) (int, error) {
	c.mu.RLock()
	var pending []domain.Template
	for _, t := range c.local {
		if t.Source == domain.TemplateSourceFile {
			pending = append(pending, t)
		}
	}
	c.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool { return pending[i].Name < pending[j].Name })
	for i, t := range pending {
		if err := dst.Upsert(ctx, t); err != nil {
			return i, fmt.Errorf("publish %s: %w", t.Name, err)
		}
	}
	return len(pending), nil
}
