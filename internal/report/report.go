// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/platform-engineering-labs/portctl/internal/teamscan"
	"github.com/platform-engineering-labs/portctl/internal/util"
)

const (
	FileName = "index.html"
	docsBase = "https://docs.port.io/sso-rbac/rbac/migration/"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"docs": func(anchor string) string { return docsBase + "#" + anchor },
	"colspan": func(s Section) int {
		if s.Checkbox {
			return len(s.Columns) + 1
		}
		return len(s.Columns)
	},
}).ParseFS(templatesFS, "templates/*.tmpl"))

// Row holds one table row; each cell may span several lines.
type Row [][]string

type Section struct {
	Title      string
	DocsAnchor string
	Columns    []string
	Checkbox   bool
	Rows       []Row
	Empty      string
}

type Group struct {
	Title       string
	DocsAnchor  string
	Description []string
	Sections    []Section
}

type document struct {
	Organization string
	RunID        string
	GeneratedAt  string
	Groups       []Group
}

// Render writes the report for result as a self-contained HTML document.
func Render(w io.Writer, result *teamscan.ScanResult) error {
	doc := document{
		Organization: result.Organization.Name,
		RunID:        result.RunID,
		Groups:       Groups(result),
	}
	if !result.GeneratedAt.IsZero() {
		doc.GeneratedAt = result.GeneratedAt.Format(time.RFC1123)
	}

	if err := templates.ExecuteTemplate(w, "report.html.tmpl", doc); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	return nil
}

// WriteFile renders the report into dir/index.html, creating dir when needed, and returns the
// path written.
func WriteFile(dir string, result *teamscan.ScanResult) (string, error) {
	if err := util.EnsureFolderHierarchy(dir); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Render(f, result); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	slog.Debug("Wrote report", "path", path)

	return path, nil
}
