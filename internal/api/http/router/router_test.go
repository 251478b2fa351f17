package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/service/appointment"
	"github.com/Alijeyrad/halisaha_backend/internal/service/customer"
	"github.com/Alijeyrad/halisaha_backend/internal/service/report"
	"github.com/Alijeyrad/halisaha_backend/internal/service/subscription"
	"github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
)

func newTestApp(t *testing.T) (*fiber.App, *repo.MemoryStore) {
	t.Helper()
	cfg := &config.Config{Venue: config.VenueConfig{
		Pitches:     []string{"barnebau", "noucamp"},
		Location:    "UTC",
		HourlyPrice: 1500,
		PhoneRegion: "TR",
	}}
	store := repo.NewMemoryStore()
	loc := cfg.Venue.Loc()
	appts := appointment.New(store, cfg.Venue.Pitches, loc, nil)

	r := NewRouter(Params{
		Cfg:             cfg,
		AppointmentSvc:  appts,
		CustomerSvc:     customer.New(store, cfg.Venue.PhoneRegion),
		SubscriptionSvc: subscription.New(store, cfg.Venue.Pitches, appts),
		SyncSvc:         synchronizer.New(store, nil, nil, synchronizer.Config{Location: loc}),
		ReportSvc:       report.New(store, len(cfg.Venue.Pitches), cfg.Venue.HourlyPrice, loc),
	})
	app := fiber.New()
	r.Register(app)
	return app, store
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestAppointmentRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	booking := `{"pitchId":"barnebau","customerName":"Ali","phoneNumber":"5551234567","timeSlot":"20.00","dateString":"15.06.25"}`

	status, body := do(t, app, http.MethodPost, "/api/v1/appointments", booking)
	require.Equal(t, http.StatusCreated, status)
	id := body["data"].(map[string]any)["id"].(string)

	status, body = do(t, app, http.MethodPost, "/api/v1/appointments", booking)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, id, body["conflict"].(map[string]any)["id"])

	status, body = do(t, app, http.MethodGet, "/api/v1/appointments?date=15.06.25", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = do(t, app, http.MethodGet, "/api/v1/appointments", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPut, "/api/v1/appointments/"+id, `{"deposit":"500"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/appointments/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, app, http.MethodGet, "/api/v1/appointments/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCustomerDuplicateRoute(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/v1/customers", `{"name":"Ali Veli","phone":"5551234567"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, app, http.MethodPost, "/api/v1/customers", `{"name":"Mehmet","phone":"5551234567"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "phone", body["field"])

	status, _ = do(t, app, http.MethodPost, "/api/v1/customers", `{"name":"  ","phone":"5550000000"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSubscriptionSyncRoute(t *testing.T) {
	app, store := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/v1/customers", `{"name":"Ali","phone":"5551234567"}`)
	require.Equal(t, http.StatusCreated, status)
	custID := body["data"].(map[string]any)["id"].(string)

	rule := `{"pitchId":"noucamp","timeSlot":"21.00","customerId":"` + custID + `","daysOfWeek":[0,1,2,3,4,5,6]}`
	status, body = do(t, app, http.MethodPost, "/api/v1/subscriptions", rule)
	require.Equal(t, http.StatusCreated, status)
	subID := body["data"].(map[string]any)["id"].(string)

	status, _ = do(t, app, http.MethodPost, "/api/v1/subscriptions", rule)
	assert.Equal(t, http.StatusConflict, status)

	status, body = do(t, app, http.MethodPost, "/api/v1/subscriptions/sync?dry_run=true", `{"period":"rolling","days":7}`)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 7, body["data"].(map[string]any)["created"])
	all, err := store.ListAllAppointments(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)

	status, body = do(t, app, http.MethodPost, "/api/v1/subscriptions/sync", `{"period":"rolling","days":7}`)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 7, body["data"].(map[string]any)["created"])

	status, _ = do(t, app, http.MethodPost, "/api/v1/subscriptions/sync", `{"period":"weekly"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodDelete, "/api/v1/subscriptions/"+subID+"?cascade_from=bad", "")
	assert.Equal(t, http.StatusBadRequest, status)

	today := time.Now().UTC().Format("02.01.06")
	status, body = do(t, app, http.MethodDelete, "/api/v1/subscriptions/"+subID+"?cascade_from="+today, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 7, body["data"].(map[string]any)["cancelled"])
}

func TestReportAndScheduleRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/api/v1/reports/summary", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 22, body["data"].(map[string]any)["emptySlots"])

	status, _ = do(t, app, http.MethodGet, "/api/v1/reports/monthly?year=2025&month=13", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodGet, "/api/v1/schedule", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["slots"], 11)
}
