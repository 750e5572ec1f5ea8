package handlers

import (
	"net/http"

	"github.com/ringside/fightcard/services"
)

type FightHandler struct {
	fightService services.FightService
}

func NewFightHandler(fightService services.FightService) *FightHandler {
	return &FightHandler{fightService: fightService}
}

func (h *FightHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input services.RecordFightInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fight, err := h.fightService.Record(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fight": fight}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FightHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fight, err := h.fightService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fight": fight}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateFightInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fight, err := h.fightService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fight": fight}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.fightService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
