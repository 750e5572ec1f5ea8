package handlers

import (
	"net/http"

	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/services"
)

type SuspensionHandler struct {
	suspensionService services.SuspensionService
}

func NewSuspensionHandler(suspensionService services.SuspensionService) *SuspensionHandler {
	return &SuspensionHandler{suspensionService: suspensionService}
}

func (h *SuspensionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSuspensionInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	suspension, err := h.suspensionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"suspension": suspension}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuspensionHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.SuspensionStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.SuspensionStatus(v)
		status = &s
	}

	suspensions, err := h.suspensionService.List(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"suspensions": suspensions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SuspensionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "suspensionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.suspensionService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
