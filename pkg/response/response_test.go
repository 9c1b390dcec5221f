package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, write func(c *gin.Context)) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	write(c)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestSuccessEnvelope(t *testing.T) {
	status, body := record(t, func(c *gin.Context) {
		Success(c, gin.H{"total": 3})
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.NotNil(t, body.Data)
}

func TestErrorEchoesStatusInEnvelope(t *testing.T) {
	status, body := record(t, func(c *gin.Context) {
		Error(c, http.StatusConflict, "already exists")
	})

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, "already exists", body.Message)
	assert.Nil(t, body.Data)
}

func TestStatusHelpers(t *testing.T) {
	cases := map[int]func(*gin.Context, string){
		http.StatusBadRequest:          BadRequest,
		http.StatusUnprocessableEntity: UnprocessableEntity,
		http.StatusNotFound:            NotFound,
		http.StatusInternalServerError: InternalError,
	}

	for want, helper := range cases {
		status, body := record(t, func(c *gin.Context) {
			helper(c, "nope")
		})
		assert.Equal(t, want, status)
		assert.Equal(t, want, body.Code)
	}
}
