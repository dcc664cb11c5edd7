package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPostHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PostHandler{posts: nil, votes: nil}
	r.POST("/posts", handler.Create)

	req, _ := http.NewRequest("POST", "/posts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostHandler_Update_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PostHandler{posts: nil, votes: nil}
	r.PUT("/posts/:id", handler.Update)

	req, _ := http.NewRequest("PUT", "/posts/4b1f6a84-98f4-4f0d-8c27-4f9a54a3c2ce", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostHandler_Vote_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PostHandler{posts: nil, votes: nil}
	r.POST("/posts/:id/vote", handler.Vote)

	req, _ := http.NewRequest("POST", "/posts/4b1f6a84-98f4-4f0d-8c27-4f9a54a3c2ce/vote", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostHandler_List_InvalidCategoryID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PostHandler{posts: nil, votes: nil}
	r.GET("/posts", handler.List)

	req, _ := http.NewRequest("GET", "/posts?category_id=not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
