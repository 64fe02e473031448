package resume

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/resumatch/resumatch/internal/utils"
)

// Parser extracts plain text from PDF bytes.
type Parser interface {
	Parse(data []byte) (string, error)
}

type PDFParser struct{}

func NewPDFParser() *PDFParser { return &PDFParser{} }

// Parse reads every page and joins page text with newlines, collapsing
// doubled blank lines the way the extraction prompt expects.
func (p *PDFParser) Parse(data []byte) (string, error) {
	const op = "resume.Parse"

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", utils.E(utils.CodeInvalidArgument, op, "corrupt or unsupported PDF", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", utils.E(utils.CodeInvalidArgument, op, "failed to extract page text", err)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}

	out := strings.ReplaceAll(b.String(), "\n\n", "\n")
	if strings.TrimSpace(out) == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "PDF contains no extractable text", nil)
	}
	return out, nil
}
