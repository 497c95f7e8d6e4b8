package ledger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MichaelAmon/was-project/internal/ledger"
)

type fakeService struct {
	findOpenRecordFn func(ctx context.Context, phone string, day time.Time) (*ledger.AttendanceRecord, error)
	insertFn         func(ctx context.Context, rec *ledger.AttendanceRecord) error
	updateFn         func(ctx context.Context, rec *ledger.AttendanceRecord) error
	listByDateFn     func(ctx context.Context, day time.Time) ([]ledger.AttendanceResponse, error)
}

func (f *fakeService) FindOpenRecord(ctx context.Context, phone string, day time.Time) (*ledger.AttendanceRecord, error) {
	return f.findOpenRecordFn(ctx, phone, day)
}
func (f *fakeService) Insert(ctx context.Context, rec *ledger.AttendanceRecord) error {
	return f.insertFn(ctx, rec)
}
func (f *fakeService) Update(ctx context.Context, rec *ledger.AttendanceRecord) error {
	return f.updateFn(ctx, rec)
}
func (f *fakeService) ListByDate(ctx context.Context, day time.Time) ([]ledger.AttendanceResponse, error) {
	return f.listByDateFn(ctx, day)
}

func TestHandler_GetAllPaginates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		listByDateFn: func(ctx context.Context, day time.Time) ([]ledger.AttendanceResponse, error) {
			return []ledger.AttendanceResponse{
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
			}, nil
		},
	}
	h := ledger.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?page=1&page_size=2", nil)
	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"meta\"")
	assert.Contains(t, w.Body.String(), "\"total\":3")
}

func TestHandler_GetAllFiltersByDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var requested time.Time
	svc := &fakeService{
		listByDateFn: func(ctx context.Context, day time.Time) ([]ledger.AttendanceResponse, error) {
			requested = day
			return nil, nil
		},
	}
	h := ledger.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?date=2025-06-02", nil)
	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-06-02", requested.Format("2006-01-02"))
}

func TestHandler_GetAllRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := ledger.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?date=02-06-2025", nil)
	h.GetAll(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
