package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestReadPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{query: "", page: 1, pageSize: 20},
		{query: "page=3&page_size=10", page: 3, pageSize: 10},
		{query: "page=-2&page_size=500", page: 1, pageSize: 100},
		{query: "page=abc&page_size=xyz", page: 1, pageSize: 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/orders?"+tc.query, nil)
		page, pageSize := ReadPagination(c)
		if page != tc.page || pageSize != tc.pageSize {
			t.Fatalf("query %q want (%d,%d) got (%d,%d)", tc.query, tc.page, tc.pageSize, page, pageSize)
		}
	}
}
