package passes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/errors"
	"codeberg.org/algopatterns/dedup/internal/passes"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

const (
	fox   = "The quick brown fox jumps over the lazy dog near the riverbank."
	bread = "Sourdough starters need feeding twice a day in a warm kitchen."
	tide  = "Tide tables list the hour of every high and low water mark."
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Strategy:               dedup.StrategySoft,
		MaxDocumentsPerRequest: 5,
	}
	manager := passes.NewManager(reports.NewMemoryStore(0), 0)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), manager, cfg)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req = httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func documents(texts ...string) gin.H {
	docs := make([]gin.H, len(texts))
	for i, text := range texts {
		docs[i] = gin.H{"text": text}
	}
	return gin.H{"documents": docs}
}

func createPass(t *testing.T, router *gin.Engine, body any) passes.Info {
	t.Helper()

	w := do(t, router, http.MethodPost, "/api/v1/passes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[passes.Info](t, w)
}

func TestPassLifecycle(t *testing.T) {
	router := newRouter(t)
	info := createPass(t, router, gin.H{"strategy": "exact"})

	assert.Equal(t, dedup.StrategyExact, info.Strategy)
	base := "/api/v1/passes/" + info.ID

	w := do(t, router, http.MethodPost, base+"/documents", documents(fox, bread))
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[ProcessResponse](t, w)
	assert.Len(t, first.Documents, 2)

	// the second batch sees the first one
	w = do(t, router, http.MethodPost, base+"/documents", documents(fox, tide))
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[ProcessResponse](t, w)
	require.Len(t, second.Documents, 1)
	assert.Equal(t, tide, second.Documents[0].Text)
	assert.Equal(t, 1, second.Stats.Removed)

	w = do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[passes.Info](t, w)
	assert.Equal(t, 2, got.Stats.Calls)
	assert.Equal(t, 3, got.Stats.Kept)
	assert.Equal(t, 1, got.Stats.Removed)

	w = do(t, router, http.MethodGet, base+"/reports?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ReportsResponse](t, w)
	require.Len(t, list.Reports, 1)
	assert.Equal(t, info.ID, list.Reports[0].PassID)
	assert.Equal(t, 1, list.Reports[0].Kept)
	assert.Equal(t, 1, list.Reports[0].Removed)

	w = do(t, router, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[passes.Info](t, w).Stats.Processed)

	w = do(t, router, http.MethodPost, base+"/documents", documents(fox))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[ProcessResponse](t, w).Documents, 1)

	w = do(t, router, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.CodePassNotFound, decode[errors.ErrorResponse](t, w).Error)
}

func TestCreatePass_Defaults(t *testing.T) {
	router := newRouter(t)

	info := createPass(t, router, nil)
	assert.Equal(t, dedup.StrategySoft, info.Strategy)
}

func TestCreatePass_Errors(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/passes", gin.H{"strategy": "semantic"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeUnknownStrategy, decode[errors.ErrorResponse](t, w).Error)

	for _, numPerm := range []int{0, dedup.MaxNumPerm + 1} {
		w = do(t, router, http.MethodPost, "/api/v1/passes", gin.H{"strategy": "soft", "options": gin.H{"num_perm": numPerm}})
		assert.Equal(t, http.StatusBadRequest, w.Code, "num_perm %d", numPerm)
		assert.Equal(t, errors.CodeValidationError, decode[errors.ErrorResponse](t, w).Error)
	}
}

func TestProcessDocuments_Errors(t *testing.T) {
	router := newRouter(t)
	info := createPass(t, router, gin.H{"strategy": "fuzzy"})

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"malformed id", "/api/v1/passes/not-a-uuid/documents", documents(fox), http.StatusNotFound, errors.CodePassNotFound},
		{"unknown pass", "/api/v1/passes/" + uuid.NewString() + "/documents", documents(fox), http.StatusNotFound, errors.CodePassNotFound},
		{"missing documents", "/api/v1/passes/" + info.ID + "/documents", gin.H{}, http.StatusBadRequest, errors.CodeValidationError},
		{"too many documents", "/api/v1/passes/" + info.ID + "/documents", documents(fox, fox, fox, fox, fox, fox), http.StatusRequestEntityTooLarge, errors.CodePayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode[errors.ErrorResponse](t, w).Error)
		})
	}

	// rejected batches leave the pass untouched
	w := do(t, router, http.MethodGet, "/api/v1/passes/"+info.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[passes.Info](t, w).Stats.Calls)
}

func TestListPasses(t *testing.T) {
	router := newRouter(t)

	for range 3 {
		createPass(t, router, gin.H{"strategy": "exact"})
	}

	w := do(t, router, http.MethodGet, "/api/v1/passes?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ListPassesResponse](t, w)
	assert.Len(t, resp.Passes, 2)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasMore)

	w = do(t, router, http.MethodGet, "/api/v1/passes?offset=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[ListPassesResponse](t, w)
	assert.Len(t, resp.Passes, 1)
	assert.False(t, resp.Pagination.HasMore)
}

func TestDeletePass_Unknown(t *testing.T) {
	router := newRouter(t)

	w := do(t, router, http.MethodDelete, "/api/v1/passes/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
