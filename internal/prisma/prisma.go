// Package prisma reads Prisma schema files with regular expressions. It
// recognises model blocks and a handful of attributes; it is not a full
// schema parser.
package prisma

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	modelBlockRe = regexp.MustCompile(`model\s+(\w+)\s*\{([^}]*)\}`)
	fieldRe      = regexp.MustCompile(`(?m)^\s+(\w+)\s+(\w+)(\[\])?(\?)?`)
	relationRe   = regexp.MustCompile(`@relation`)
	indexRe      = regexp.MustCompile(`@@index|@@unique`)
)

// Field is one scalar or relation field of a model.
type Field struct {
	Name     string
	Type     string
	List     bool
	Optional bool
}

// Model is a model block.
type Model struct {
	Name   string
	Fields []Field
}

// Schema is the parsed content of a schema.prisma file.
type Schema struct {
	Path         string
	Models       []Model
	Relations    int // @relation attributes
	Indexes      int // @@index and @@unique attributes
	HasMap       bool
	HasUpdatedAt bool
}

// Parse extracts models and attribute counts from schema source.
func Parse(src string) *Schema {
	s := &Schema{
		Relations:    len(relationRe.FindAllStringIndex(src, -1)),
		Indexes:      len(indexRe.FindAllStringIndex(src, -1)),
		HasMap:       strings.Contains(src, "@@map"),
		HasUpdatedAt: strings.Contains(src, "updatedAt"),
	}
	for _, m := range modelBlockRe.FindAllStringSubmatch(src, -1) {
		model := Model{Name: m[1]}
		for _, f := range fieldRe.FindAllStringSubmatch(m[2], -1) {
			model.Fields = append(model.Fields, Field{
				Name:     f[1],
				Type:     f[2],
				List:     f[3] != "",
				Optional: f[4] != "",
			})
		}
		s.Models = append(s.Models, model)
	}
	return s
}

// Load reads and parses the schema at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := Parse(string(data))
	s.Path = path
	return s, nil
}

// Related returns, per model, the other models its fields refer to, in
// field order without duplicates.
func (s *Schema) Related() map[string][]string {
	names := make(map[string]bool, len(s.Models))
	for _, m := range s.Models {
		names[m.Name] = true
	}
	out := make(map[string][]string, len(s.Models))
	for _, m := range s.Models {
		seen := make(map[string]bool)
		for _, f := range m.Fields {
			if names[f.Type] && !seen[f.Type] {
				seen[f.Type] = true
				out[m.Name] = append(out[m.Name], f.Type)
			}
		}
	}
	return out
}

// Analysis is the result of the analyze action.
type Analysis struct {
	Schema          *Schema
	Recommendations []string
}

// Analyze reports model statistics and schema recommendations.
func Analyze(s *Schema) *Analysis {
	a := &Analysis{Schema: s}
	if s.Indexes < len(s.Models) {
		a.Recommendations = append(a.Recommendations, "Review indexes: fewer @@index/@@unique than models")
	}
	if !s.HasMap {
		a.Recommendations = append(a.Recommendations, "Consider @@map to control table names")
	}
	if !s.HasUpdatedAt {
		a.Recommendations = append(a.Recommendations, "Add updatedAt fields")
	}
	return a
}

// Render formats the analysis.
func (a *Analysis) Render() string {
	var b strings.Builder
	b.WriteString("📊 Prisma schema analysis\n\n")
	fmt.Fprintf(&b, "Models: %d\n", len(a.Schema.Models))
	for _, m := range a.Schema.Models {
		fmt.Fprintf(&b, "  - %s (%d fields)\n", m.Name, len(m.Fields))
	}
	fmt.Fprintf(&b, "\nRelations: %d\n", a.Schema.Relations)
	fmt.Fprintf(&b, "Indexes: %d\n", a.Schema.Indexes)
	if len(a.Recommendations) > 0 {
		b.WriteString("\n💡 Recommendations:")
		for _, r := range a.Recommendations {
			b.WriteString("\n  - " + r)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Diagram is the result of the visualize action.
type Diagram struct {
	Schema *Schema
}

// Render draws one box per model with its related models.
func (d *Diagram) Render() string {
	related := d.Schema.Related()
	var b strings.Builder
	b.WriteString("📐 Schema diagram\n")
	for _, m := range d.Schema.Models {
		fmt.Fprintf(&b, "\n┌─ %s", m.Name)
		for _, r := range related[m.Name] {
			fmt.Fprintf(&b, "\n│  └─→ %s", r)
		}
		b.WriteString("\n└────────")
	}
	if len(d.Schema.Models) == 0 {
		b.WriteString("\nNo models found")
	}
	return b.String()
}

// migrationsShown is how many of the most recent migrations are listed.
const migrationsShown = 5

// Migrations is the state of the migrations directory next to a schema.
type Migrations struct {
	Dir    string
	Exists bool
	Total  int
	Recent []string
}

// LoadMigrations lists <dir of schemaPath>/migrations, excluding the lock
// file, and keeps the last five entries in name order.
func LoadMigrations(schemaPath string) (*Migrations, error) {
	dir := filepath.Join(filepath.Dir(schemaPath), "migrations")
	m := &Migrations{Dir: dir}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	m.Exists = true
	var names []string
	for _, e := range entries {
		if e.Name() == "migration_lock.toml" {
			continue
		}
		names = append(names, e.Name())
	}
	m.Total = len(names)
	if len(names) > migrationsShown {
		names = names[len(names)-migrationsShown:]
	}
	m.Recent = names
	return m, nil
}

// Render formats the migration state.
func (m *Migrations) Render() string {
	var b strings.Builder
	b.WriteString("📁 Migrations\n\n")
	if !m.Exists {
		b.WriteString("No migrations directory.\nnpx prisma migrate dev --name init")
		return b.String()
	}
	fmt.Fprintf(&b, "Migrations: %d", m.Total)
	for _, name := range m.Recent {
		b.WriteString("\n  - " + name)
	}
	return b.String()
}
