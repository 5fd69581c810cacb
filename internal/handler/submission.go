package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/ui"
	"github.com/templui/stepboard/internal/ui/pages"
	"github.com/templui/stepboard/internal/validation"
)

type SubmissionHandler struct {
	submissionService  *service.SubmissionService
	proofService       *service.ProofService
	leaderboardService *service.LeaderboardService
}

func NewSubmissionHandler(submissionService *service.SubmissionService, proofService *service.ProofService, leaderboardService *service.LeaderboardService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService:  submissionService,
		proofService:       proofService,
		leaderboardService: leaderboardService,
	}
}

// Submit appends a step record and refreshes the form and the leaderboard tab in view
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		toastError(w, r, "Could not read the form")
		return
	}

	steps, err := validation.ParseSteps(r.FormValue("steps"))
	if err != nil {
		toastError(w, r, err.Error())
		return
	}

	input := service.SubmitInput{
		Name:     submittedName(r),
		Steps:    steps,
		ProofRef: strings.TrimSpace(r.FormValue("proof_ref")),
	}

	file, header, err := r.FormFile("proof")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		toastError(w, r, "Could not read the attached proof")
		return
	default:
		defer func() { _ = file.Close() }()
		err = validation.ValidateFile(header, validation.ProofConstraints)
		if err != nil {
			toastError(w, r, err.Error())
			return
		}
		input.Proof = &service.ProofUpload{Filename: header.Filename, Content: file}
	}

	record, err := h.submissionService.Submit(r.Context(), input)
	if err != nil {
		h.submitFailed(w, r, err)
		return
	}
	if record == nil {
		// No name: nothing to save, nothing to show
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.renderRefresh(w, r)
	toastSuccess(w, r, "Steps submitted", fmt.Sprintf("%s logged %d steps.", record.Name, record.Steps))
}

func (h *SubmissionHandler) submitFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSteps),
		errors.Is(err, service.ErrUnknownProof),
		errors.Is(err, validation.ErrNameTooLong):
		toastError(w, r, err.Error())
	default:
		slog.Error("failed to save submission", "error", err)
		toastError(w, r, "Failed to save your steps, please try again")
	}
}

// renderRefresh swaps in fresh form fields and the leaderboard for the active view
func (h *SubmissionHandler) renderRefresh(w http.ResponseWriter, r *http.Request) {
	participants, err := h.leaderboardService.Participants(r.Context())
	if err != nil {
		slog.Error("failed to list participants", "error", err)
		participants = []string{}
	}
	ui.RenderOOB(w, r, pages.SubmitFields(participants), "innerHTML:#submit-fields")

	board, err := h.leaderboardService.Leaderboard(r.Context(), activeView(r))
	if err != nil {
		slog.Error("failed to reload leaderboard", "error", err)
		return
	}
	ui.RenderOOB(w, r, pages.Leaderboard(board), "innerHTML:#leaderboard")
}

// UploadProof stores a compressed proof ahead of the submission and returns its proof_ref
func (h *SubmissionHandler) UploadProof(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		toastError(w, r, "Could not read the upload")
		return
	}

	file, header, err := r.FormFile("proof_upload")
	if errors.Is(err, http.ErrMissingFile) {
		ui.Render(w, r, pages.ProofRef(""))
		return
	}
	if err != nil {
		toastError(w, r, "Could not read the upload")
		return
	}
	defer func() { _ = file.Close() }()

	key, err := h.storeCompressed(r, header, file)
	if err != nil {
		ui.Render(w, r, pages.ProofRef(""))
		if errors.Is(err, service.ErrInvalidImage) || errors.Is(err, errRejectedUpload) {
			toastError(w, r, err.Error())
			return
		}
		slog.Error("failed to store proof", "error", err)
		toastError(w, r, "Failed to store the screenshot")
		return
	}

	ui.Render(w, r, pages.ProofRef(key))
}

var errRejectedUpload = errors.New("upload rejected")

func (h *SubmissionHandler) storeCompressed(r *http.Request, header *multipart.FileHeader, file multipart.File) (string, error) {
	err := validation.ValidateFile(header, validation.ProofConstraints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errRejectedUpload, err)
	}
	return h.proofService.StoreCompressed(r.Context(), file)
}

// submittedName picks the selected name, or new_name when "add new" was chosen
// or nothing was selected.
func submittedName(r *http.Request) string {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" || name == pages.NewNameOption {
		return r.FormValue("new_name")
	}
	return name
}
