package handlers

import (
	"errors"
	"net/http"

	"minbar/internal/services"
	"minbar/internal/utils/helpers"

	"github.com/gorilla/mux"
)

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

type UploadHandler struct {
	svc *services.MediaService
}

func NewUploadHandler(svc *services.MediaService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload godoc
// @Summary Upload a cover image or PDF
// @Tags admin-uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Success 201 {object} models.Upload
// @Failure 400 {object} helpers.Response
// @Failure 413 {object} helpers.Response
// @Failure 415 {object} helpers.Response
// @Router /api/admin/uploads [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxBytes()+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeServiceError(w, r, services.ErrFileTooLarge)
				return
			}
			helpers.Error(w, http.StatusBadRequest, "missing file field")
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		up, err := h.svc.Save(r.Context(), part)
		part.Close()
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				err = services.ErrFileTooLarge
			}
			writeServiceError(w, r, err)
			return
		}
		helpers.JSON(w, http.StatusCreated, up)
		return
	}
}

// List godoc
// @Summary List uploads
// @Tags admin-uploads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Upload
// @Router /api/admin/uploads [get]
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, items)
}

// Delete godoc
// @Summary Delete an upload
// @Tags admin-uploads
// @Security BearerAuth
// @Param name path string true "File name"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/uploads/{name} [delete]
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Serve streams a stored upload. Names are checked by the service, so
// nothing outside the upload directory is reachable.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Path(mux.Vars(r)["name"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, p)
}
