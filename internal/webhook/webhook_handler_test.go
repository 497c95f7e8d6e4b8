package webhook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/MichaelAmon/was-project/internal/engine"
	"github.com/MichaelAmon/was-project/internal/geofence"
	"github.com/MichaelAmon/was-project/internal/ledger"
	"github.com/MichaelAmon/was-project/internal/pending"
	"github.com/MichaelAmon/was-project/internal/roster"
	"github.com/MichaelAmon/was-project/internal/webhook"

	"github.com/gin-gonic/gin"
)

type staticRoster struct{}

func (staticRoster) FindByPhone(ctx context.Context, phone string) (*roster.StaffMember, error) {
	if phone == "+233247877745" {
		return &roster.StaffMember{Phone: phone, FullName: "Ama Mensah", AllowedOffices: "Main"}, nil
	}
	return nil, nil
}

type nullLedger struct{}

func (nullLedger) FindOpenRecord(ctx context.Context, phone string, day time.Time) (*ledger.AttendanceRecord, error) {
	return nil, nil
}
func (nullLedger) Insert(ctx context.Context, rec *ledger.AttendanceRecord) error { return nil }
func (nullLedger) Update(ctx context.Context, rec *ledger.AttendanceRecord) error { return nil }

type recordingNotifier struct {
	mu      sync.Mutex
	texts   int
	prompts int
}

func (r *recordingNotifier) SendText(ctx context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts++
	return nil
}
func (r *recordingNotifier) SendLocationRequest(ctx context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts++
	return nil
}

func newTestHandler(t *testing.T, deduper *webhook.Deduper) (*webhook.Handler, *recordingNotifier) {
	t.Helper()

	store := pending.NewStore(0)
	t.Cleanup(store.Stop)

	notifier := &recordingNotifier{}
	matcher := geofence.NewMatcher([]geofence.Office{
		{ID: "Main", Latitude: 9.4292, Longitude: -1.0534, RadiusKm: 0.5},
	})
	eng := engine.New(staticRoster{}, nullLedger{}, notifier, store, matcher, zap.NewNop())

	return webhook.NewHandler(eng, deduper, "verify-secret", zap.NewNop()), notifier
}

const textMessagePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{"changes": [{"value": {"messages": [
    {"id": "wamid.A1", "from": "233247877745", "type": "text", "text": {"body": "clock in"}}
  ]}}]}]
}`

func postJSON(h func(*gin.Context), body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestHandler_VerifyHandshake(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=12345", nil)
	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestHandler_VerifyRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	h.Verify(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_ReceiveProcessesTextCommand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, notifier := newTestHandler(t, nil)

	w := postJSON(h.Receive, textMessagePayload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, notifier.prompts)
}

func TestHandler_ReceiveMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t, nil)

	for _, body := range []string{
		`not json`,
		`{"object":"whatsapp_business_account","entry":[]}`,
		`{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{}}]}]}`,
	} {
		w := postJSON(h.Receive, body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestHandler_ReceiveDropsRedeliveredMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectSetNX("webhook:seen:wamid.A1", "1", 10*time.Minute).SetVal(true)
	mock.ExpectSetNX("webhook:seen:wamid.A1", "1", 10*time.Minute).SetVal(false)

	h, notifier := newTestHandler(t, webhook.NewDeduper(rdb, zap.NewNop()))

	assert.Equal(t, http.StatusOK, postJSON(h.Receive, textMessagePayload).Code)
	assert.Equal(t, http.StatusOK, postJSON(h.Receive, textMessagePayload).Code)

	assert.Equal(t, 1, notifier.prompts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(t, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"service"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
}
