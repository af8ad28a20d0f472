package checklist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cleanops/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rg := r.Group("/")
	rg.Use(func(c *gin.Context) {
		c.Set("user_id", testHousekeeperID)
		c.Set("role", "housekeeper")
	})
	h := NewHandler(svc)
	h.RegisterRoutes(rg)
	return r
}

func TestMyChecklists_RepoFailureMapsLikeOtherEndpoints(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	router := newTestRouter(svc)

	repo.On("ListByHousekeeper", mock.Anything, testHousekeeperID, 20, 0).
		Return(nil, gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checklists/my", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestMyChecklists_EmptyListIsOK(t *testing.T) {
	svc, repo, _, _, _ := newEngine()
	router := newTestRouter(svc)

	repo.On("ListByHousekeeper", mock.Anything, testHousekeeperID, 20, 0).
		Return([]domain.Checklist{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checklists/my", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
