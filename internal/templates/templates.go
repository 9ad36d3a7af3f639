// Package templates provides the embedded HTML pages with user override support.
// Pages are loaded with resolution order:
// 1. User override: templatesDir/{name}.html
// 2. Embedded default: internal/templates/{name}.html
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.html
var fs embed.FS

// GetPage parses the page template name with the given functions
func GetPage(name string, templatesDir string, funcs template.FuncMap) (*template.Template, error) {
	data, err := GetPageSource(name, templatesDir)
	if err != nil {
		return nil, err
	}

	t, err := template.New(name).Funcs(funcs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page '%s': %w", name, err)
	}
	return t, nil
}

// GetPageSource returns the raw page source, preferring a user override
func GetPageSource(name string, templatesDir string) ([]byte, error) {
	if templatesDir != "" {
		userPath := filepath.Join(templatesDir, name+".html")
		if data, err := os.ReadFile(userPath); err == nil {
			return data, nil
		}
	}

	data, err := fs.ReadFile(name + ".html")
	if err != nil {
		return nil, fmt.Errorf("page '%s' not found (checked user override and embedded)", name)
	}
	return data, nil
}

// ListEmbeddedPages returns names of all embedded pages
func ListEmbeddedPages() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".html"))
		}
	}
	return names, nil
}
