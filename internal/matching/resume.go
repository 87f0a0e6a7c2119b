package matching

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// minResumeChars is the extraction floor: shorter text means the file is a
// scan or otherwise unreadable, and the application is skipped rather than
// scored on garbage.
const minResumeChars = 100

var xmlTagRe = regexp.MustCompile(`<[^>]+>`)

// ExtractText pulls plain text out of résumé bytes based on the stored mime
// type. Unsupported types are an error so the caller can count the skip.
func ExtractText(data []byte, mimeType string) (string, error) {
	switch {
	case strings.Contains(mimeType, "pdf"):
		return extractPDF(data)
	case strings.Contains(mimeType, "wordprocessingml"), strings.Contains(mimeType, "msword"):
		return extractDOCX(data)
	case strings.HasPrefix(mimeType, "text/"):
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported resume type %q", mimeType)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	// GetContent returns the raw document XML; strip tags and re-insert
	// paragraph breaks.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTagRe.ReplaceAllString(content, " ")
	content = strings.Join(strings.Fields(content), " ")
	return strings.TrimSpace(content), nil
}
