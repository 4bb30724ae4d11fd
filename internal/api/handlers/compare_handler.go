package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"textcompare-api/internal/middleware"
	apierrors "textcompare-api/internal/pkg/errors"
	"textcompare-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// CompareHandler handles reference upload and comparison endpoints.
type CompareHandler struct {
	comparisonService services.ComparisonService
}

func NewCompareHandler(comparisonService services.ComparisonService) *CompareHandler {
	return &CompareHandler{
		comparisonService: comparisonService,
	}
}

// Text payloads travel Base64-encoded, matching the upload format the clients
// already produce.
type referenceRequest struct {
	Text string `json:"text"`
}

type referenceResponse struct {
	ReferenceID string `json:"reference_id"`
}

type compareRequest struct {
	CandidateText string `json:"candidate_text"`
}

// UploadReference stores a reference text for the authenticated key.
func (h *CompareHandler) UploadReference(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req referenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.ErrInvalidInput)
		return
	}

	text, err := decodeText(req.Text)
	if err != nil {
		writeError(w, apierrors.ErrInvalidInput)
		return
	}

	id, err := h.comparisonService.UploadReference(r.Context(), claims, text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, referenceResponse{ReferenceID: id.String()})
}

// Compare runs one comparison of the candidate text against the referenced
// document.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	referenceID, err := uuid.Parse(mux.Vars(r)["reference_id"])
	if err != nil {
		writeError(w, apierrors.ErrTextNotFound)
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.ErrInvalidInput)
		return
	}

	candidate, err := decodeText(req.CandidateText)
	if err != nil {
		writeError(w, apierrors.ErrInvalidInput)
		return
	}

	report, err := h.comparisonService.Compare(r.Context(), claims, referenceID, candidate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"report": report})
}

func decodeText(encoded string) (string, error) {
	if encoded == "" {
		return "", apierrors.ErrInvalidInput
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(decoded) == 0 {
		return "", apierrors.ErrInvalidInput
	}
	return string(decoded), nil
}
