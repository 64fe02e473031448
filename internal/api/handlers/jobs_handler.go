package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/services"
	"github.com/resumatch/resumatch/internal/utils"
)

type JobsHandler struct {
	svc services.JobSearchService
}

func NewJobsHandler(svc services.JobSearchService) *JobsHandler {
	return &JobsHandler{svc: svc}
}

// Search accepts an optional resume PDF plus a location preference and
// returns scraped postings. Without a file the resume cached from a
// previous request within the TTL is used.
func (h *JobsHandler) Search(c *gin.Context) {
	const op = "JobsHandler.Search"

	pref := c.PostForm("locationPreference")
	if pref == "" {
		pref = string(models.PrefOnLocation)
	}
	if !models.ValidLocationPreference(pref) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op,
			"locationPreference must be one of onLocation, remote, hybrid", nil))
		return
	}

	data, _, err := pdfFromForm(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	postings, err := h.svc.Search(c.Request.Context(), clientKey(c), models.LocationPreference(pref), data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": postings})
}

func (h *JobsHandler) History(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	runs, err := h.svc.History(c.Request.Context(), clientKey(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
