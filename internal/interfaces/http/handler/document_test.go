package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appaccounting "github.com/bizledger/backend/internal/application/accounting"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDocumentTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.FinancialDocumentModel{}, &models.LineItemModel{}))

	service := appaccounting.NewDocumentService(persistence.NewGormDocumentRepository(db), "Karnataka")

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	NewDocumentHandler(service).RegisterRoutes(api)
	return engine
}

func createDocumentBody(commit bool) []byte {
	body := map[string]any{
		"document_type": "INVOICE",
		"party_id":      uuid.New().String(),
		"party_name":    "Acme Traders",
		"document_date": time.Now().Format(time.RFC3339),
		"place_of_supply": "Karnataka",
		"commit":        commit,
		"lines": []map[string]any{
			{"item_reference": "SKU-100", "quantity": "10", "rate": "100", "tax_rate": "18"},
		},
	}
	raw, _ := json.Marshal(body)
	return raw
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestDocumentHandler_Create(t *testing.T) {
	t.Run("creates a committed invoice", func(t *testing.T) {
		engine := newDocumentTestServer(t)

		w, env := doJSON(t, engine, http.MethodPost, "/api/v1/documents", createDocumentBody(true))
		require.Equal(t, http.StatusCreated, w.Code)
		require.True(t, env.Success)

		var doc appaccounting.DocumentResponse
		require.NoError(t, json.Unmarshal(env.Data, &doc))
		assert.Equal(t, "ISSUED", doc.Status)
		assert.Equal(t, "1180", doc.TotalAmount.String())
		assert.Equal(t, "90", doc.CGSTAmount.String())
		assert.Contains(t, doc.DocumentNumber, "INV-")
	})

	t.Run("rejects a document without lines", func(t *testing.T) {
		engine := newDocumentTestServer(t)

		body := []byte(`{"document_type":"INVOICE","party_name":"Acme"}`)
		w, env := doJSON(t, engine, http.MethodPost, "/api/v1/documents", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})
}

func TestDocumentHandler_Get(t *testing.T) {
	engine := newDocumentTestServer(t)

	_, created := doJSON(t, engine, http.MethodPost, "/api/v1/documents", createDocumentBody(false))
	var doc appaccounting.DocumentResponse
	require.NoError(t, json.Unmarshal(created.Data, &doc))

	t.Run("round trips by ID", func(t *testing.T) {
		w, env := doJSON(t, engine, http.MethodGet, "/api/v1/documents/"+doc.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var fetched appaccounting.DocumentResponse
		require.NoError(t, json.Unmarshal(env.Data, &fetched))
		assert.Equal(t, doc.DocumentNumber, fetched.DocumentNumber)
	})

	t.Run("unknown ID maps to 404", func(t *testing.T) {
		w, env := doJSON(t, engine, http.MethodGet, "/api/v1/documents/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)
	})

	t.Run("malformed ID maps to 400", func(t *testing.T) {
		w, _ := doJSON(t, engine, http.MethodGet, "/api/v1/documents/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDocumentHandler_UpdateLines(t *testing.T) {
	engine := newDocumentTestServer(t)

	_, created := doJSON(t, engine, http.MethodPost, "/api/v1/documents", createDocumentBody(true))
	var doc appaccounting.DocumentResponse
	require.NoError(t, json.Unmarshal(created.Data, &doc))

	body := []byte(`{"lines":[{"item_reference":"SKU-200","quantity":"1","rate":"50","tax_rate":"5"}]}`)
	path := fmt.Sprintf("/api/v1/documents/%s/lines", doc.ID)
	w, env := doJSON(t, engine, http.MethodPut, path, body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ERR_INVALID_STATE", env.Error.Code)
}

func TestDocumentHandler_Cancel(t *testing.T) {
	engine := newDocumentTestServer(t)

	_, created := doJSON(t, engine, http.MethodPost, "/api/v1/documents", createDocumentBody(true))
	var doc appaccounting.DocumentResponse
	require.NoError(t, json.Unmarshal(created.Data, &doc))

	path := fmt.Sprintf("/api/v1/documents/%s/cancel", doc.ID)
	w, env := doJSON(t, engine, http.MethodPost, path, []byte(`{"reason":"issued in error"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var cancelled appaccounting.DocumentResponse
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "CANCELLED", cancelled.Status)
}
