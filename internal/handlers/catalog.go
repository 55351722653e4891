package handlers

import (
	"net/http"

	"minbar/internal/models"
	"minbar/internal/services"
	"minbar/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func catalogFilter(r *http.Request, onlyPublished bool) models.CatalogFilter {
	return models.CatalogFilter{
		AuthorID:      queryID(r, "author_id"),
		CategoryID:    queryID(r, "category_id"),
		PlaceID:       queryID(r, "place_id"),
		TagID:         queryID(r, "tag_id"),
		OnlyPublished: onlyPublished,
	}
}

// ListBooks godoc
// @Summary List published books
// @Tags books
// @Produce json
// @Param author_id query int false "Author"
// @Param category_id query int false "Category"
// @Param place_id query int false "Place"
// @Param tag_id query int false "Tag"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.Page[models.Book]
// @Router /api/books [get]
func (h *CatalogHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	h.listBooks(w, r, true)
}

// AdminListBooks godoc
// @Summary List all books, drafts included
// @Tags admin-books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.Page[models.Book]
// @Router /api/admin/books [get]
func (h *CatalogHandler) AdminListBooks(w http.ResponseWriter, r *http.Request) {
	h.listBooks(w, r, false)
}

func (h *CatalogHandler) listBooks(w http.ResponseWriter, r *http.Request, onlyPublished bool) {
	page, err := h.svc.ListBooks(r.Context(), catalogFilter(r, onlyPublished), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// GetBookBySlug godoc
// @Summary Get a published book
// @Tags books
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} models.Book
// @Failure 404 {object} helpers.Response
// @Router /api/books/{slug} [get]
func (h *CatalogHandler) GetBookBySlug(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.PublishedBook(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// GetBook godoc
// @Summary Get a book by id
// @Tags admin-books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} models.Book
// @Failure 404 {object} helpers.Response
// @Router /api/admin/books/{id} [get]
func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	b, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// CreateBook godoc
// @Summary Create a book
// @Tags admin-books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body models.BookRequest true "Book"
// @Success 201 {object} models.Book
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/books [post]
func (h *CatalogHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req models.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	b, err := h.svc.CreateBook(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, b)
}

// UpdateBook godoc
// @Summary Update a book
// @Tags admin-books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param input body models.BookRequest true "Book"
// @Success 200 {object} models.Book
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/books/{id} [put]
func (h *CatalogHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req models.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	b, err := h.svc.UpdateBook(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags admin-books
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/books/{id} [delete]
func (h *CatalogHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListVideos godoc
// @Summary List published videos
// @Tags videos
// @Produce json
// @Param author_id query int false "Author"
// @Param category_id query int false "Category"
// @Param place_id query int false "Place"
// @Param tag_id query int false "Tag"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.Page[models.Video]
// @Router /api/videos [get]
func (h *CatalogHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	h.listVideos(w, r, true)
}

// AdminListVideos godoc
// @Summary List all videos, drafts included
// @Tags admin-videos
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.Page[models.Video]
// @Router /api/admin/videos [get]
func (h *CatalogHandler) AdminListVideos(w http.ResponseWriter, r *http.Request) {
	h.listVideos(w, r, false)
}

func (h *CatalogHandler) listVideos(w http.ResponseWriter, r *http.Request, onlyPublished bool) {
	page, err := h.svc.ListVideos(r.Context(), catalogFilter(r, onlyPublished), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// GetVideoBySlug godoc
// @Summary Get a published video
// @Tags videos
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} models.Video
// @Failure 404 {object} helpers.Response
// @Router /api/videos/{slug} [get]
func (h *CatalogHandler) GetVideoBySlug(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.PublishedVideo(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, v)
}

// GetVideo godoc
// @Summary Get a video by id
// @Tags admin-videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} models.Video
// @Failure 404 {object} helpers.Response
// @Router /api/admin/videos/{id} [get]
func (h *CatalogHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	v, err := h.svc.GetVideo(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, v)
}

// CreateVideo godoc
// @Summary Create a video
// @Tags admin-videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body models.VideoRequest true "Video"
// @Success 201 {object} models.Video
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/videos [post]
func (h *CatalogHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req models.VideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	v, err := h.svc.CreateVideo(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, v)
}

// UpdateVideo godoc
// @Summary Update a video
// @Tags admin-videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Param input body models.VideoRequest true "Video"
// @Success 200 {object} models.Video
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/videos/{id} [put]
func (h *CatalogHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req models.VideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	v, err := h.svc.UpdateVideo(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, v)
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags admin-videos
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/videos/{id} [delete]
func (h *CatalogHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.svc.DeleteVideo(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search godoc
// @Summary Search published books and videos
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Param limit query int false "Max results per type (50 max)"
// @Success 200 {object} models.SearchResult
// @Router /api/search [get]
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}
