package ui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
)

func TestClass(t *testing.T) {
	assert.Equal(t, "px-4", Class("px-2", "px-4"))
	assert.Equal(t, "rounded-md", Class("rounded-md", "", "  "))

	merged := Class("bg-white text-gray-700", If(true, "bg-gray-900"))
	assert.Contains(t, merged, "bg-gray-900")
	assert.Contains(t, merged, "text-gray-700")
	assert.NotContains(t, merged, "bg-white")

	assert.Equal(t, "bg-white", Class("bg-white", If(false, "bg-gray-900")))
}

func TestRenderOOB(t *testing.T) {
	c := templ.Raw("<p>hi</p>")

	rec := httptest.NewRecorder()
	RenderOOB(rec, httptest.NewRequest(http.MethodGet, "/", nil), c, "innerHTML:#leaderboard")
	assert.Equal(t, `<div hx-swap-oob="innerHTML:#leaderboard"><p>hi</p></div>`, rec.Body.String())
}

func TestRenderOOB_Several(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submissions", nil)
	RenderOOB(rec, req, templ.Raw("<p>a</p>"), "innerHTML:#leaderboard")
	RenderOOB(rec, req, templ.Raw("<p>b</p>"), "beforeend:#toast-container")

	assert.Equal(t,
		`<div hx-swap-oob="innerHTML:#leaderboard"><p>a</p></div><div hx-swap-oob="beforeend:#toast-container"><p>b</p></div>`,
		rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRender_ComponentError(t *testing.T) {
	c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
