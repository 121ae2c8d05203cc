package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"license-activation-service/internal/activation"
	"license-activation-service/internal/database"
	"license-activation-service/internal/model"
	"license-activation-service/internal/service"
	"license-activation-service/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAccountURL = "https://shop.example.com/my-account"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := database.OpenTest()
	t.Cleanup(func() { database.CloseTest(db) })

	usage := service.NewUsageService(db)
	core := activation.NewHandler(store.NewLicenseStore(db), store.NewActivationStore(db), testAccountURL)
	api := NewActivationAPI(core, usage)

	app := fiber.New()
	app.Get("/api/v1/activations", api.HandleRequest)
	return app, db
}

func seedLicense(t *testing.T, db *gorm.DB, limit int) {
	t.Helper()

	expires := time.Now().AddDate(1, 0, 0)
	require.NoError(t, db.Create(&model.License{
		Key:             "LIC-HTTP-1",
		ActivationEmail: "owner@example.com",
		ActivationLimit: limit,
		ExpiresAt:       &expires,
		Products:        []model.ApiProduct{{Slug: "my-plugin"}},
	}).Error)
}

func doRequest(t *testing.T, app *fiber.App, params map[string]string) map[string]any {
	t.Helper()

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	req, err := http.NewRequest("GET", "/api/v1/activations?"+q.Encode(), nil)
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestActivationEndpointActivate(t *testing.T) {
	app, db := newTestApp(t)
	seedLicense(t, db, 2)

	body := doRequest(t, app, map[string]string{
		"request":        "activate",
		"license_key":    "LIC-HTTP-1",
		"api_product_id": "my-plugin",
		"instance":       "https://customer.example.com",
		"email":          "owner@example.com",
	})

	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["activated"])
	assert.Equal(t, float64(1), body["remaining"])

	var record model.Activation
	require.NoError(t, db.Where("license_key = ?", "LIC-HTTP-1").First(&record).Error)
	assert.True(t, record.Active)
	assert.Equal(t, "https://customer.example.com", record.Instance)
}

func TestActivationEndpointDeactivate(t *testing.T) {
	app, db := newTestApp(t)
	seedLicense(t, db, 2)

	params := map[string]string{
		"request":        "activate",
		"license_key":    "LIC-HTTP-1",
		"api_product_id": "my-plugin",
		"instance":       "site-a",
		"email":          "owner@example.com",
	}
	doRequest(t, app, params)

	params["request"] = "deactivate"
	delete(params, "email")
	body := doRequest(t, app, params)

	assert.Equal(t, map[string]any{"success": true}, body)

	var record model.Activation
	require.NoError(t, db.Where("instance = ?", "site-a").First(&record).Error)
	assert.False(t, record.Active)
}

func TestActivationEndpointFailureEnvelope(t *testing.T) {
	app, db := newTestApp(t)
	seedLicense(t, db, 2)

	tests := []struct {
		name     string
		params   map[string]string
		wantCode float64
	}{
		{
			name:     "missing_request",
			params:   map[string]string{"license_key": "LIC-HTTP-1"},
			wantCode: 100,
		},
		{
			name:     "unknown_license",
			params:   map[string]string{"request": "activate", "license_key": "LIC-NOPE", "api_product_id": "my-plugin"},
			wantCode: 101,
		},
		{
			name:     "missing_product",
			params:   map[string]string{"request": "activate", "license_key": "LIC-HTTP-1"},
			wantCode: 102,
		},
		{
			name: "wrong_email",
			params: map[string]string{
				"request": "activate", "license_key": "LIC-HTTP-1",
				"api_product_id": "my-plugin", "instance": "site-a",
				"email": "wrong@example.com",
			},
			wantCode: 103,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := doRequest(t, app, tt.params)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestActivationEndpointQuotaExceeded(t *testing.T) {
	app, db := newTestApp(t)
	seedLicense(t, db, 1)

	params := map[string]string{
		"request":        "activate",
		"license_key":    "LIC-HTTP-1",
		"api_product_id": "my-plugin",
		"instance":       "site-a",
		"email":          "owner@example.com",
	}
	doRequest(t, app, params)

	params["instance"] = "site-b"
	body := doRequest(t, app, params)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(105), body["code"])
	assert.Contains(t, body["message"], testAccountURL)
}

func TestActivationEndpointRecordsUsage(t *testing.T) {
	app, db := newTestApp(t)
	seedLicense(t, db, 2)

	doRequest(t, app, map[string]string{
		"request":        "activate",
		"license_key":    "LIC-HTTP-1",
		"api_product_id": "my-plugin",
		"instance":       "site-a",
		"email":          "owner@example.com",
	})
	doRequest(t, app, map[string]string{
		"request":        "deactivate",
		"license_key":    "LIC-HTTP-1",
		"api_product_id": "my-plugin",
		"instance":       "site-b",
	})

	var usages []model.LicenseUsage
	require.NoError(t, db.Where("license_key = ?", "LIC-HTTP-1").Order("id asc").Find(&usages).Error)
	require.Len(t, usages, 2)

	assert.Equal(t, "activate", usages[0].Action)
	assert.Equal(t, "success", usages[0].Result)
	assert.Equal(t, "deactivate", usages[1].Action)
	assert.Equal(t, "error 109", usages[1].Result)
}

func TestActivationEndpointSanitizesInput(t *testing.T) {
	app, db := newTestApp(t)
	seedLicense(t, db, 2)

	body := doRequest(t, app, map[string]string{
		"request":        " activate ",
		"license_key":    " LIC-HTTP-1\t",
		"api_product_id": "my-plugin",
		"instance":       " site-a ",
		"email":          " owner@example.com ",
	})

	assert.Equal(t, true, body["success"])

	var record model.Activation
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, "site-a", record.Instance)
}
