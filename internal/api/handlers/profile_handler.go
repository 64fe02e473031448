package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resumatch/resumatch/internal/services"
	"github.com/resumatch/resumatch/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// UploadResume parses the PDF and replaces the caller's extracted
// profile.
func (h *ProfileHandler) UploadResume(c *gin.Context) {
	const op = "ProfileHandler.UploadResume"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	data, fileName, err := pdfFromForm(c, op)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(data) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'pdfFile'", nil))
		return
	}

	profile, err := h.svc.UploadResume(c.Request.Context(), userID, fileName, "application/pdf", data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Insights analyzes the caller's resume without requiring an account:
// either a pdfFile field on this request or a previously uploaded
// resume (matched by user id or IP) serves as input.
func (h *ProfileHandler) Insights(c *gin.Context) {
	const op = "ProfileHandler.Insights"

	data, _, err := pdfFromForm(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	insights, err := h.svc.Insights(c.Request.Context(), clientKey(c), data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
