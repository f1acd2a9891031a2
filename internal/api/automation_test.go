package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autodm-gateway/internal/instagram"
	"autodm-gateway/internal/models"
	"autodm-gateway/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAPI(t *testing.T, graphURL string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.AutomationRule{}, &models.AutomationLog{}))

	st := store.New(db)
	client := instagram.NewClient(graphURL, 2*time.Second)
	accountHandler := NewAccountHandler(st, client)
	automationHandler := NewAutomationHandler(st)

	r := gin.New()
	r.POST("/api/instagram/credentials", accountHandler.SaveCredentials)
	r.GET("/api/instagram/media", accountHandler.GetMedia)
	r.GET("/api/automations", automationHandler.GetRules)
	r.POST("/api/automations", automationHandler.CreateRule)
	r.PUT("/api/automations/:id", automationHandler.UpdateRule)
	r.DELETE("/api/automations/:id", automationHandler.DeleteRule)
	r.POST("/api/automations/:id/toggle", automationHandler.ToggleRule)
	r.GET("/api/automations/logs", automationHandler.GetLogs)

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaveCredentials(t *testing.T) {
	r, db := setupAPI(t, "http://unused")

	w := doJSON(t, r, http.MethodPost, "/api/instagram/credentials",
		`{"owner_id": 1, "instagram_id": "ig-1", "username": "creator", "access_token": "tok"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Reconnecting rotates the token on the same record.
	w = doJSON(t, r, http.MethodPost, "/api/instagram/credentials",
		`{"owner_id": 1, "instagram_id": "ig-1", "username": "creator", "access_token": "tok-2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var account models.Account
	require.NoError(t, db.First(&account).Error)
	require.Equal(t, "tok-2", account.AccessToken)
}

func TestSaveCredentialsValidation(t *testing.T) {
	r, _ := setupAPI(t, "http://unused")

	w := doJSON(t, r, http.MethodPost, "/api/instagram/credentials", `{"owner_id": 1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRuleValidation(t *testing.T) {
	r, _ := setupAPI(t, "http://unused")

	// Missing trigger keyword.
	w := doJSON(t, r, http.MethodPost, "/api/automations",
		`{"account_id": 1, "reel_id": "reel-1", "dm_message": "hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Missing message.
	w = doJSON(t, r, http.MethodPost, "/api/automations",
		`{"account_id": 1, "reel_id": "reel-1", "trigger_keyword": "promo"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRuleLifecycle(t *testing.T) {
	r, db := setupAPI(t, "http://unused")

	w := doJSON(t, r, http.MethodPost, "/api/automations",
		`{"account_id": 1, "reel_id": "reel-1", "trigger_keyword": "promo", "dm_message": "Here you go"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rule models.AutomationRule
	require.NoError(t, db.First(&rule).Error)
	require.True(t, rule.Active)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/automations/%d/toggle", rule.ID), `{"active": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&rule).Error)
	require.False(t, rule.Active)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/automations/%d", rule.ID), `{"dm_message": "Updated"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&rule).Error)
	require.Equal(t, "Updated", rule.DMMessage)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/automations/%d", rule.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.AutomationRule{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetMedia(t *testing.T) {
	var gotPath string
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		fmt.Fprint(w, `{"data":[{"id":"m-1","caption":"launch","media_type":"VIDEO"}]}`)
	}))
	defer graph.Close()

	r, db := setupAPI(t, graph.URL)
	require.NoError(t, db.Create(&models.Account{OwnerID: 7, InstagramID: "ig-1", AccessToken: "tok"}).Error)

	w := doJSON(t, r, http.MethodGet, "/api/instagram/media?owner_id=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "/ig-1/media", gotPath)
	require.Contains(t, w.Body.String(), `"m-1"`)
}

func TestGetMediaNotConnected(t *testing.T) {
	r, _ := setupAPI(t, "http://unused")

	w := doJSON(t, r, http.MethodGet, "/api/instagram/media?owner_id=7", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
