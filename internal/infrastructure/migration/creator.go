package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

var fileTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}} ({{.Direction}}, {{.Dialect}})
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// Dialects lists the per-driver subdirectories of the migrations path
var Dialects = []string{"postgres", "mysql", "sqlite3"}

// MigrationSet is one version created across every dialect
type MigrationSet struct {
	Version string
	Name    string
	Files   []string
}

// CreateMigration writes an empty up/down pair with a shared timestamp version
// into every dialect directory under migrationsPath.
func CreateMigration(migrationsPath, name, description string) (*MigrationSet, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	now := time.Now().UTC()
	set := &MigrationSet{Version: now.Format("20060102150405"), Name: base}

	for _, dialect := range Dialects {
		dir := filepath.Join(migrationsPath, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		for _, direction := range []string{"up", "down"} {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s.sql", set.Version, base, direction))
			data := map[string]string{
				"Name":        base,
				"Direction":   direction,
				"Dialect":     dialect,
				"Timestamp":   now.Format(time.RFC3339),
				"Description": description,
			}
			if err := writeTemplate(path, data); err != nil {
				set.remove()
				return nil, err
			}
			set.Files = append(set.Files, path)
		}
	}
	return set, nil
}

func (s *MigrationSet) remove() {
	for _, f := range s.Files {
		_ = os.Remove(f)
	}
}

func writeTemplate(path string, data map[string]string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return fileTemplate.Execute(f, data)
}

// sanitizeName lowercases name and folds separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted migration base names found in dir
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}
