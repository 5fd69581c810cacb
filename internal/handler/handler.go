package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/templui/stepboard/internal/model"
	"github.com/templui/stepboard/internal/ui"
	"github.com/templui/stepboard/internal/ui/components/toast"
)

const toastTarget = "beforeend:#toast-container"

// maxUploadMemory bounds multipart parsing; larger parts spill to temp files
const maxUploadMemory = 10 << 20

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func toastError(w http.ResponseWriter, r *http.Request, description string) {
	ui.RenderOOB(w, r, toast.Error(description), toastTarget)
}

// toastFailure is toastError with a status code for non-htmx clients.
// htmx does not swap 4xx responses, so htmx requests get the toast with 200.
func toastFailure(w http.ResponseWriter, r *http.Request, status int, description string) {
	if !isHTMX(r) {
		w.WriteHeader(status)
	}
	toastError(w, r, description)
}

func toastSuccess(w http.ResponseWriter, r *http.Request, title, description string) {
	ui.RenderOOB(w, r, toast.Success(title, description), toastTarget)
}

// activeView is the leaderboard tab the page is showing, sent along by forms
// that re-render the leaderboard. Unknown values fall back to daily.
func activeView(r *http.Request) model.View {
	view, err := model.ParseView(r.FormValue("view"))
	if err != nil {
		return model.ViewDaily
	}
	return view
}

// redirect sends htmx clients a full page redirect and everyone else a 303
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

type apiError struct {
	Error string `json:"error"`
}
