package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
)

// Document is what a generated PDF reads back as
type Document struct {
	PageCount int
	Lines     []string // text shown by each Tj operator, in page order
}

// Text joins the extracted lines with newlines
func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Extractor reads generated PDFs back with pdfcpu
type Extractor struct {
	logger arbor.ILogger
}

// NewExtractor creates a new PDF extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{logger: logger}
}

var pageFileRegex = regexp.MustCompile(`page_(\d+)`)

// ReadBack parses data, counts its pages and extracts the literal strings
// drawn on each page. Only the simple text operators written by Service are
// understood, which is enough to check an export.
func (e *Extractor) ReadBack(data []byte) (*Document, error) {
	workDir, err := os.MkdirTemp("", "atlas-pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "export.pdf")
	if err := os.WriteFile(inFile, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(inFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	outDir := filepath.Join(workDir, "content")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content dir: %w", err)
	}
	if err := api.ExtractContentFile(inFile, outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to extract PDF content: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted content: %w", err)
	}

	type pageFile struct {
		page int
		name string
	}
	var pages []pageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		page := 0
		if m := pageFileRegex.FindStringSubmatch(file.Name()); m != nil {
			page, _ = strconv.Atoi(m[1])
		}
		pages = append(pages, pageFile{page: page, name: file.Name()})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].page < pages[j].page })

	doc := &Document{PageCount: pdfCtx.PageCount}
	for _, p := range pages {
		content, err := os.ReadFile(filepath.Join(outDir, p.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read page content %s: %w", p.name, err)
		}
		doc.Lines = append(doc.Lines, showTextOperands(content)...)
	}

	if e.logger != nil {
		e.logger.Debug().
			Int("page_count", doc.PageCount).
			Int("lines", len(doc.Lines)).
			Msg("Read back PDF")
	}

	return doc, nil
}

// showTextOperands returns the literal string operands of Tj operators in a
// decoded content stream.
func showTextOperands(content []byte) []string {
	var out []string
	for i := 0; i < len(content); i++ {
		if content[i] != '(' {
			continue
		}
		literal, next := readLiteral(content, i+1)
		j := next
		for j < len(content) && isSpace(content[j]) {
			j++
		}
		if j+1 < len(content) && content[j] == 'T' && content[j+1] == 'j' {
			out = append(out, literal)
		}
		i = next - 1
	}
	return out
}

// readLiteral decodes a PDF literal string starting after its opening
// parenthesis and returns it with the index just past the closing one.
func readLiteral(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(content) {
		c := content[i]
		switch {
		case c == '\\' && i+1 < len(content):
			i++
			switch e := content[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					n := 0
					k := 0
					for k < 3 && i < len(content) && content[i] >= '0' && content[i] <= '7' {
						n = n*8 + int(content[i]-'0')
						i++
						k++
					}
					i--
					sb.WriteByte(byte(n))
				} else {
					sb.WriteByte(e)
				}
			}
		case c == '(':
			depth++
			sb.WriteByte(c)
		case c == ')':
			if depth == 0 {
				return decodeWinAnsi(sb.String()), i + 1
			}
			depth--
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
		i++
	}
	return decodeWinAnsi(sb.String()), i
}

// decodeWinAnsi maps single-byte text back to UTF-8
func decodeWinAnsi(s string) string {
	out, err := DefaultSanitizer.charset.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}
