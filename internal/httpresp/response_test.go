package httpresp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type item struct {
	Name string `json:"name"`
}

func record(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func TestListWrapsDataWithTotal(t *testing.T) {
	w := record(func(c *gin.Context) {
		List(c, []item{{Name: "a"}, {Name: "b"}})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"name":"a"},{"name":"b"}],"total":2}`, w.Body.String())
}

func TestListOfNothingIsAnEmptyArray(t *testing.T) {
	w := record(func(c *gin.Context) {
		List(c, []item{})
	})

	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())
}

func TestCreatedStatus(t *testing.T) {
	w := record(func(c *gin.Context) {
		Created(c, item{Name: "a"})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"a"}`, w.Body.String())
}
