package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/radreport/radreport/internal/report/domain"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional per-directory template index.
const ManifestFile = "templates.yaml"

type manifest struct {
	Templates []manifestEntry `yaml:"templates"`
}

type manifestEntry struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	File  string `yaml:"file"`
	Body  string `yaml:"body"`
}

// LoadDir adds every .md and .txt file under dir as a template named after
// the file. Entries in templates.yaml set titles and may define inline
// bodies or point at files outside the naming convention.
func (c *Catalog) LoadDir(dir string) (int, error) {
	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".md" && ext != ".txt" {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		c.Add(domain.Template{
			Name:   normalizeName(name),
			Title:  name,
			Body:   string(b),
			Source: domain.TemplateSourceFile,
		})
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("load templates from %s: %w", dir, err)
	}

	n, err := c.loadManifest(dir)
	return loaded + n, err
}

func (c *Catalog) loadManifest(dir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", ManifestFile, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return 0, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}

	added := 0
	for _, e := range m.Templates {
		name := normalizeName(e.Name)
		if name == "" {
			return added, fmt.Errorf("%s: template entry without name", ManifestFile)
		}

		body := e.Body
		if e.File != "" {
			b, err := os.ReadFile(filepath.Join(dir, e.File))
			if err != nil {
				return added, fmt.Errorf("%s: template %q: %w", ManifestFile, name, err)
			}
			body = string(b)
		}

		c.mu.Lock()
		existing, known := c.local[name]
		c.mu.Unlock()
		if body == "" && known {
			body = existing.Body
		}
		if body == "" {
			return added, fmt.Errorf("%s: template %q has no body", ManifestFile, name)
		}

		title := e.Title
		if title == "" {
			title = e.Name
		}
		c.Add(domain.Template{Name: name, Title: title, Body: body, Source: domain.TemplateSourceFile})
		if !known {
			added++
		}
	}
	return added, nil
}
