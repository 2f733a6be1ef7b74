package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pargen/internal/port"
)

type pdfExtractor struct {
	tempDir string
}

// NewPDFExtractor creates a TextExtractor backed by pdfcpu. Extraction runs
// through temp files because pdfcpu's content extraction is file based.
func NewPDFExtractor() (port.TextExtractor, error) {
	tempDir := filepath.Join(os.TempDir(), "pargen-extract")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating extraction temp dir: %w", err)
	}
	return &pdfExtractor{tempDir: tempDir}, nil
}

func (e *pdfExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	tempFile := filepath.Join(e.tempDir, id+".pdf")
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return "", fmt.Errorf("writing temp pdf: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	pageCount := pdfCtx.PageCount
	if pageCount == 0 {
		return "", nil
	}

	outDir := filepath.Join(e.tempDir, id)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating content dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("extracting pdf content: %w", err)
	}

	// pdfcpu names each page file <basename>_Content_page_<n>.txt, where
	// the basename is the temp file name without its extension.
	pageTexts := make(map[int]string, pageCount)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("reading content dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), id+"_Content_page_%d", &pageNum); err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("reading page content: %w", err)
		}
		pageTexts[pageNum] = textFromContentStream(raw)
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		pages = append(pages, pageTexts[pageNum])
	}
	return strings.Join(pages, "\n"), nil
}

// textFromContentStream pulls the literal strings shown by Tj and TJ
// operators out of an uncompressed page content stream. Show operations on
// the same page are joined with spaces; escaped parentheses and backslashes
// inside literals are unescaped.
func textFromContentStream(content []byte) string {
	var out []string
	var lit strings.Builder
	depth := 0
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]
		if depth == 0 {
			if c == '(' {
				depth = 1
				lit.Reset()
			}
			continue
		}
		if escaped {
			switch c {
			case 'n':
				lit.WriteByte('\n')
			case 'r':
				lit.WriteByte('\r')
			case 't':
				lit.WriteByte('\t')
			default:
				lit.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			lit.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				if s := lit.String(); s != "" {
					out = append(out, s)
				}
			} else {
				lit.WriteByte(c)
			}
		default:
			lit.WriteByte(c)
		}
	}

	return strings.Join(out, " ")
}
