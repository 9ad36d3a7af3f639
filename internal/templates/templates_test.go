package templates

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmbeddedPages(t *testing.T) {
	pages, err := ListEmbeddedPages()
	require.NoError(t, err)
	assert.Contains(t, pages, "index")
}

func TestGetPage_Resolution(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`custom {{shout .}}`), 0644))

	funcs := template.FuncMap{"shout": func(s string) string { return s + "!" }}

	tmpl, err := GetPage("index", dir, funcs)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "index", "hello"))
	assert.Equal(t, "custom hello!", buf.String())

	embedded, err := GetPageSource("index", filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Contains(t, string(embedded), "<html")

	_, err = GetPage("nowhere", "", nil)
	assert.Error(t, err)
}
