package documents

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findoc-backend/internal/shared/server/middleware"
	"findoc-backend/internal/shared/server/respond"
)

// Handler exposes the document lifecycle over HTTP.
type Handler struct {
	Service *Service
}

// RegisterRoutes mounts the document routes on the given group. The group is
// expected to carry the auth middleware already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/single", h.upload)
	rg.GET("/user-documents", h.list)
	rg.GET("/summarize/:fileId", h.summarize)
	rg.GET("/:fileId", h.fileInfo)
	rg.DELETE("/:fileId", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	// Headroom on top of the file cap for multipart framing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Unable to read uploaded file", err)
		return
	}
	defer file.Close()

	userID := middleware.UserIDFromContext(c)
	doc, err := h.Service.Upload(
		c.Request.Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"data": gin.H{
			"dbId":         doc.ID,
			"fileId":       doc.FileID,
			"url":          doc.FileURL,
			"originalName": doc.FileName,
			"size":         doc.Size,
			"uploadedAt":   doc.UploadedAt,
		},
	})
}

func (h *Handler) list(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	userID := middleware.UserIDFromContext(c)
	docs, err := h.Service.List(c.Request.Context(), userID, q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"count":   len(docs),
		"data":    toResponses(docs),
	})
}

func (h *Handler) summarize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysis, err := h.Service.Summarize(c.Request.Context(), userID, c.Param("fileId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"data":    analysis,
	})
}

func (h *Handler) fileInfo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	doc, err := h.Service.Get(c.Request.Context(), userID, c.Param("fileId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"data":    toResponse(doc),
	})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("fileId")); err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"message": "File deleted successfully",
	})
}

// parseListQuery reads filter and sort parameters. An endDate covers the whole
// named day, so it is pushed to the last instant of that day.
func parseListQuery(c *gin.Context) (ListQuery, error) {
	q := ListQuery{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListQuery{}, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
		q.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListQuery{}, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		q.EndDate = &end
	}
	return q, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, trimSentinel(err), err)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "File not found", err)
	case errors.Is(err, ErrExtraction):
		respond.Error(c, http.StatusBadRequest, "Could not extract text from this PDF", err)
	case errors.Is(err, ErrFetch):
		respond.Error(c, http.StatusInternalServerError, "Failed to retrieve the stored file", err)
	case errors.Is(err, ErrSummarization):
		respond.Error(c, http.StatusInternalServerError, "Failed to summarize the document", err)
	default:
		respond.Error(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}

// trimSentinel turns "invalid input: only PDF files are allowed" into the
// client-facing half after the sentinel prefix.
func trimSentinel(err error) string {
	msg := err.Error()
	if idx := len(ErrInvalidInput.Error()) + 2; idx < len(msg) {
		return msg[idx:]
	}
	return msg
}
