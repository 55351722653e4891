package handlers

import (
	"net/http"

	"minbar/internal/models"
	"minbar/internal/services"
	"minbar/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type TaxonomyHandler struct {
	svc *services.TaxonomyService
}

func NewTaxonomyHandler(svc *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc}
}

func termKind(w http.ResponseWriter, r *http.Request) (models.TermKind, bool) {
	k := models.TermKind(mux.Vars(r)["kind"])
	if !k.Valid() {
		helpers.Error(w, http.StatusNotFound, "unknown taxonomy")
		return "", false
	}
	return k, true
}

// List godoc
// @Summary List terms with published item counts
// @Tags taxonomy
// @Produce json
// @Param kind path string true "authors, categories, tags or places"
// @Success 200 {array} models.TermWithCount
// @Failure 404 {object} helpers.Response
// @Router /api/{kind} [get]
func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := termKind(w, r)
	if !ok {
		return
	}
	items, err := h.svc.List(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, items)
}

// GetBySlug godoc
// @Summary Get a term by slug
// @Tags taxonomy
// @Produce json
// @Param kind path string true "authors, categories, tags or places"
// @Param slug path string true "Slug"
// @Success 200 {object} models.Term
// @Failure 404 {object} helpers.Response
// @Router /api/{kind}/{slug} [get]
func (h *TaxonomyHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	kind, ok := termKind(w, r)
	if !ok {
		return
	}
	t, err := h.svc.GetBySlug(r.Context(), kind, mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, t)
}

// Create godoc
// @Summary Create a term
// @Tags admin-taxonomy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "authors, categories, tags or places"
// @Param input body models.TermRequest true "Term"
// @Success 201 {object} models.Term
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/{kind} [post]
func (h *TaxonomyHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := termKind(w, r)
	if !ok {
		return
	}
	var req models.TermRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	t, err := h.svc.Create(r.Context(), kind, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, t)
}

// Get godoc
// @Summary Get a term by id
// @Tags admin-taxonomy
// @Produce json
// @Security BearerAuth
// @Param kind path string true "authors, categories, tags or places"
// @Param id path int true "Term ID"
// @Success 200 {object} models.Term
// @Failure 404 {object} helpers.Response
// @Router /api/admin/{kind}/{id} [get]
func (h *TaxonomyHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := termKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := h.svc.Get(r.Context(), kind, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, t)
}

// Update godoc
// @Summary Update a term
// @Tags admin-taxonomy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "authors, categories, tags or places"
// @Param id path int true "Term ID"
// @Param input body models.TermRequest true "Term"
// @Success 200 {object} models.Term
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/{kind}/{id} [put]
func (h *TaxonomyHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := termKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req models.TermRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	t, err := h.svc.Update(r.Context(), kind, id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, t)
}

// Delete godoc
// @Summary Delete a term
// @Description Items referencing the term keep existing with the reference cleared.
// @Tags admin-taxonomy
// @Security BearerAuth
// @Param kind path string true "authors, categories, tags or places"
// @Param id path int true "Term ID"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/{kind}/{id} [delete]
func (h *TaxonomyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := termKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.Delete(r.Context(), kind, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
