package http_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/attendance"
	customerService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/customer"
	dashboardService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	notificationService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/notification"
	officeService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/office"
	visitService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/visit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type testServer struct {
	t      *testing.T
	router http.Handler
	jwt    jwt.Service
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	fixtures.SeedDemo(store)
	brokenOffice := "office-broken"
	broken := office.DefaultSettings()
	broken.WorkStartTime = "25:00"
	store.SeedOffice(office.Office{ID: brokenOffice, Name: "Broken", Latitude: -7.0, Longitude: 109.9, Radius: 500}, broken)
	store.SeedUser(user.User{ID: "user-broken", Name: "Broken Office Worker", Role: user.RoleKaryawan, OfficeID: &brokenOffice})

	now := func() time.Time { return time.Date(2025, 3, 10, 8, 30, 0, 0, wib) }
	fileStorage, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(store.Notifications(), store.Users(), hub, wib, notificationService.Config{
		FlushInterval: 10 * time.Millisecond,
	})
	t.Cleanup(notifSvc.Stop)

	radius := func() float64 { return 500 }
	jwtSvc := jwt.NewJWTService("test-secret", "1h")
	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: "test", AllowedOrigins: []string{"*"}},
		jwtSvc,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceService.NewAttendanceService(
				store.Attendances(), store.Users(), store.Offices(), notifSvc, wib, now,
			)),
			Dashboard: appHTTP.NewDashboardHandler(dashboardService.NewDashboardService(
				store.Users(), store.Offices(), store.Attendances(), store.Visits(), wib, now,
			)),
			Visit: appHTTP.NewVisitHandler(visitService.NewVisitService(
				store.Visits(), store.Customers(), store.Attendances(), store.Transactor(), radius, wib, now,
			)),
			Customer:     appHTTP.NewCustomerHandler(customerService.NewCustomerService(store.Customers())),
			Office:       appHTTP.NewOfficeHandler(officeService.NewOfficeService(store.Offices())),
			Notification: appHTTP.NewNotificationHandler(notifSvc),
			Upload:       appHTTP.NewUploadHandler(file.NewFileService(fileStorage, now)),
		},
	)

	return &testServer{t: t, router: router, jwt: jwtSvc, store: store}
}

func (s *testServer) token(userID string) string {
	s.t.Helper()
	for _, u := range fixtures.DemoUsers() {
		if u.ID == userID {
			tok, _, err := s.jwt.GenerateAccessToken(u.ID, u.Role, u.OfficeID)
			require.NoError(s.t, err)
			return tok
		}
	}
	officeID := "office-broken"
	tok, _, err := s.jwt.GenerateAccessToken(userID, user.RoleKaryawan, &officeID)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, userID string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func checkInBody(lat, lon float64) map[string]interface{} {
	return map[string]interface{}{
		"photoUrl":  "/uploads/photos/2025-03-10/in.jpg",
		"latitude":  lat,
		"longitude": lon,
	}
}

func TestCheckIn_Created(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", checkInBody(-7.0, 109.9))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Check-in successful", body["message"])
	assert.NotNil(t, body["attendance"])
}

func TestCheckIn_Duplicate(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", checkInBody(-7.0, 109.9))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", checkInBody(-7.0, 109.9))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_CHECKED_IN", body["code"])
	assert.Equal(t, "Already checked in today", body["message"])
}

func TestCheckIn_OutOfRadius(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", checkInBody(northOf(-7.0, 600), 109.9))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OUT_OF_RADIUS", body["code"])
	assert.Equal(t, "You are outside the office radius. You are 600m away from the office. Max allowed is 500m.", body["message"])
}

func TestCheckIn_MissingPhoto(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", map[string]interface{}{"latitude": -7.0, "longitude": 109.9})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Photo is required.", body["message"])
}

func TestCheckIn_BrokenScheduleIsServerError(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/attendance/checkin", "user-broken", checkInBody(-7.0, 109.9))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error checking in", body["message"])
	assert.NotEmpty(t, body["error"])
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/attendance/checkout", "user-limpung-1", checkInBody(-7.0, 109.9))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NO_CHECK_IN_TODAY", body["code"])
}

func TestVisit_RequiresCheckIn(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(http.MethodPost, "/api/visits", "user-limpung-1", map[string]interface{}{
		"customerId": "cust-1",
		"purpose":    "SERVICE_ONLY",
		"latitude":   -6.175392,
		"longitude":  106.827153,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You must Clock In (Absen Masuk) first before creating a visit.", body["message"])
}

func TestVisit_CreateAndApprove(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", checkInBody(-7.0, 109.9))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, created := s.do(http.MethodPost, "/api/visits", "user-limpung-1", map[string]interface{}{
		"customerId": "cust-1",
		"purpose":    "SERVICE_ONLY",
		"latitude":   -6.175392,
		"longitude":  106.827153,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pending", created["status"])
	visitID, _ := created["id"].(string)
	require.NotEmpty(t, visitID)

	rec, _ = s.do(http.MethodPost, "/api/visits/"+visitID+"/approve", "user-limpung-1", map[string]interface{}{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, approved := s.do(http.MethodPost, "/api/visits/"+visitID+"/approve", "user-spv-limpung", map[string]interface{}{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Visit approved", approved["message"])
}

func TestVisit_OutOfCustomerRadius(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodPost, "/api/attendance/checkin", "user-limpung-1", checkInBody(-7.0, 109.9))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := s.do(http.MethodPost, "/api/visits", "user-limpung-1", map[string]interface{}{
		"customerId": "cust-1",
		"purpose":    "SERVICE_ONLY",
		"latitude":   -7.0,
		"longitude":  109.9,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OUT_OF_RADIUS", body["code"])
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/attendance/today", "/api/visits", "/api/customers", "/api/notifications"} {
		rec, _ := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRoutes_PermissionGated(t *testing.T) {
	s := newTestServer(t)

	forbidden := []struct{ method, path string }{
		{http.MethodGet, "/api/attendance/all"},
		{http.MethodGet, "/api/attendance/stats"},
		{http.MethodGet, "/api/attendance/export-csv"},
		{http.MethodGet, "/api/visits/export"},
		{http.MethodGet, "/api/visits/export-pdf"},
		{http.MethodPost, "/api/visits/some-visit/approve"},
		{http.MethodGet, "/api/offices/office-limpung/schedule"},
		{http.MethodPut, "/api/offices/office-limpung/schedule"},
	}
	for _, route := range forbidden {
		rec, body := s.do(route.method, route.path, "user-limpung-1", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, route.path)
		assert.Equal(t, "FORBIDDEN", body["code"], route.path)
	}

	for _, path := range []string{"/api/attendance/all", "/api/attendance/stats", "/api/offices/office-limpung/schedule"} {
		rec, _ := s.do(http.MethodGet, path, "user-spv-limpung", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	rec, _ := s.do(http.MethodGet, "/api/attendance/stats", "user-admin", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// northOf returns the latitude meters due north of lat.
func northOf(lat, meters float64) float64 {
	return lat + meters/6371000*(180.0/math.Pi)
}
