package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/services"
	"github.com/resumatch/resumatch/internal/utils"
)

type ContentHandler struct {
	svc services.ContentService
}

func NewContentHandler(svc services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Generate writes an application post for a platform, grounded in the
// caller's resume (uploaded now or cached from a previous request).
func (h *ContentHandler) Generate(c *gin.Context) {
	const op = "ContentHandler.Generate"

	platform := c.PostForm("platform")
	jobTitle := c.PostForm("jobTitle")

	data, _, err := pdfFromForm(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	content, err := h.svc.Generate(c.Request.Context(), clientKey(c), platform, jobTitle, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) List(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	out, err := h.svc.List(c.Request.Context(), clientKey(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contents": out})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ContentHandler) SetStatus(c *gin.Context) {
	const op = "ContentHandler.SetStatus"

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "status is required", err))
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), models.ContentStatus(req.Status)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}
