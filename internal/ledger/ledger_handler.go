package ledger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MichaelAmon/was-project/internal/shared/apperror"
	"github.com/MichaelAmon/was-project/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetAll lists attendance rows for one calendar day (today UTC by default).
func (h *Handler) GetAll(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		mapped := apperror.MapValidationError(err)
		httpErr := apperror.ToHTTP(mapped)
		response.Error(c, http.StatusBadRequest, httpErr.Code, httpErr.Message, nil)
		return
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if q.Date != "" {
		day, _ = time.Parse("2006-01-02", q.Date)
	}

	rows, err := h.service.ListByDate(c.Request.Context(), day)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	total := int64(len(rows))
	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	meta := response.NewPaginationMeta(total, q.Page, q.PageSize)
	response.Success(c, http.StatusOK, rows[start:end], &meta)
}
