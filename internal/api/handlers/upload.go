package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resumatch/resumatch/internal/utils"
)

const (
	// PDFFormField is the multipart field clients send the resume in.
	PDFFormField = "pdfFile"

	maxPDFSize = 10 << 20
)

// pdfFromForm reads and validates the resume field. A request without
// the field returns (nil, "", nil): the caller decides whether an
// upload is required or the cached resume may serve.
func pdfFromForm(c *gin.Context, op string) ([]byte, string, error) {
	fh, err := c.FormFile(PDFFormField)
	if err != nil {
		return nil, "", nil
	}

	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "only .pdf is allowed", nil)
	}
	if fh.Size <= 0 || fh.Size > maxPDFSize {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPDFSize+1))
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to read upload", err)
	}
	if len(data) > maxPDFSize {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if ct := http.DetectContentType(head); ct != "application/pdf" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be pdf)", nil)
	}

	return data, fh.Filename, nil
}

// clientKey scopes cached resume text: the user id when authenticated,
// the client IP otherwise.
func clientKey(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return c.ClientIP()
}
