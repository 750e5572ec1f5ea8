package handlers

import (
	"net/http"

	"github.com/ringside/fightcard/services"
)

type BoutHandler struct {
	boutService services.BoutService
}

func NewBoutHandler(boutService services.BoutService) *BoutHandler {
	return &BoutHandler{boutService: boutService}
}

func (h *BoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateBoutInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bout, err := h.boutService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bout": bout}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoutHandler) Generate(w http.ResponseWriter, r *http.Request) {
	bracketID, err := readIDParam(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bouts, err := h.boutService.Generate(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bouts": bouts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoutHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "boutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bout, err := h.boutService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bout": bout}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoutHandler) ListByBracket(w http.ResponseWriter, r *http.Request) {
	bracketID, err := readIDParam(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bouts, err := h.boutService.ListByBracket(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bouts": bouts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "boutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.boutService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
