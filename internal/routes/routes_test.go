package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/database"
	"github.com/caresync/caresync/internal/handlers"
	"github.com/caresync/caresync/internal/services"
	"github.com/caresync/caresync/internal/vault"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.Migrate())

	cfg := &config.Config{
		JWTSecret:       "route-test-secret",
		JWTAccessExpiry: 30 * time.Minute,
		MaxFileSize:     1 << 20,
		UploadDir:       t.TempDir(),
	}

	key, err := vault.GenerateKey()
	require.NoError(t, err)
	fileVault, err := vault.New(key, cfg.MaxFileSize)
	require.NoError(t, err)

	authService := services.NewAuthService(db, cfg)
	recordService := services.NewRecordService(db, fileVault)
	appointmentService := services.NewAppointmentService(db)
	metricService := services.NewMetricService(db)
	patientService := services.NewPatientService(db)
	adminService := services.NewAdminService(db, cfg)

	app := fiber.New()
	Setup(app, cfg,
		authService,
		handlers.NewAuthHandler(authService),
		handlers.NewRecordHandler(recordService, cfg.UploadDir),
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewMetricHandler(metricService),
		handlers.NewDoctorHandler(recordService, patientService),
		handlers.NewAdminHandler(adminService),
	)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registerAndLogin(t *testing.T, app *fiber.App, username, role string) (string, uint) {
	t.Helper()

	resp := postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password-123",
		"role":      role,
		"full_name": "Test " + username,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", "", fiber.Map{
		"username": username,
		"password": "password-123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string `json:"access_token"`
		UserID      uint   `json:"user_id"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &login))
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken, login.UserID
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/records/my-records", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/records/my-records", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleEnforcement(t *testing.T) {
	app := newTestApp(t)
	doctorToken, _ := registerAndLogin(t, app, "dr-bob", "doctor")
	patientToken, _ := registerAndLogin(t, app, "alice", "patient")

	// Patient-only route with a doctor token.
	req := httptest.NewRequest(fiber.MethodGet, "/api/records/my-records", nil)
	req.Header.Set("Authorization", "Bearer "+doctorToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Doctor-only route with a patient token.
	req = httptest.NewRequest(fiber.MethodGet, "/api/doctors/search-patients", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Admin route with a non-admin token.
	req = httptest.NewRequest(fiber.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMetricRoundTrip(t *testing.T) {
	app := newTestApp(t)
	token, _ := registerAndLogin(t, app, "alice", "patient")

	resp := postJSON(t, app, "/api/health-metrics/add", token, fiber.Map{
		"metric_name": "heart_rate",
		"value":       130,
		"unit":        "bpm",
		"recorded_at": "2026-03-01T08:00:00Z",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var added struct {
		IsCritical bool `json:"is_critical"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &added))
	assert.True(t, added.IsCritical)

	req := httptest.NewRequest(fiber.MethodGet, "/api/health-metrics/analysis", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, getResp.StatusCode)

	var analysisResp struct {
		Analysis map[string]struct {
			LatestValue float64 `json:"latest_value"`
			Trend       string  `json:"trend"`
		} `json:"analysis"`
	}
	raw, err = io.ReadAll(getResp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &analysisResp))
	require.Contains(t, analysisResp.Analysis, "heart_rate")
	assert.Equal(t, 130.0, analysisResp.Analysis["heart_rate"].LatestValue)
	assert.Equal(t, "insufficient_data", analysisResp.Analysis["heart_rate"].Trend)
}

func TestAppointmentLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	patientToken, patientID := registerAndLogin(t, app, "alice", "patient")
	doctorToken, doctorID := registerAndLogin(t, app, "dr-bob", "doctor")

	resp := postJSON(t, app, "/api/appointments/create", patientToken, fiber.Map{
		"patient_id":       patientID,
		"doctor_id":        doctorID,
		"appointment_date": "2026-09-15T14:00:00Z",
		"reason":           "follow-up",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		AppointmentID uint `json:"appointment_id"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotZero(t, created.AppointmentID)

	payload, err := json.Marshal(fiber.Map{"status": "confirmed"})
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPut,
		fmt.Sprintf("/api/appointments/%d/update", created.AppointmentID),
		bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+doctorToken)
	updateResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, updateResp.StatusCode)

	var updated struct {
		Status string `json:"status"`
	}
	raw, err = io.ReadAll(updateResp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "confirmed", updated.Status)

	req = httptest.NewRequest(fiber.MethodGet, "/api/appointments/my-appointments", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, listResp.StatusCode)
}

func TestDeactivatedAccountTokenStopsWorking(t *testing.T) {
	app := newTestApp(t)
	adminToken, _ := registerAndLogin(t, app, "root", "admin")
	patientToken, _ := registerAndLogin(t, app, "alice", "patient")

	// Look the patient up through the admin listing.
	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listing struct {
		Users []struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &listing))

	var patientID uint
	for _, u := range listing.Users {
		if u.Username == "alice" {
			patientID = u.ID
		}
	}
	require.NotZero(t, patientID)

	req = httptest.NewRequest(fiber.MethodPut, fmt.Sprintf("/api/admin/users/%d/deactivate", patientID), nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The still-unexpired token no longer resolves to an account.
	req = httptest.NewRequest(fiber.MethodGet, "/api/records/my-records", nil)
	req.Header.Set("Authorization", "Bearer "+patientToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
