package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/binkeyit/storefront/internal/storage"
)

// maxUploadSize caps catalog image uploads.
const maxUploadSize = 10 << 20

// UploadHandler stores catalog images on the image host and returns their
// public URLs for use in category, subcategory and product records.
type UploadHandler struct {
	images *storage.Storage
}

func NewUploadHandler(images *storage.Storage) *UploadHandler {
	return &UploadHandler{images: images}
}

// UploadRouter registers the file upload route on the given router.
func UploadRouter(r chi.Router, images *storage.Storage, gate, admin func(http.Handler) http.Handler) {
	handler := NewUploadHandler(images)

	r.With(gate, admin).Post("/upload", handler.Upload)
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeFailure(w, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("images/%s%s", uuid.NewString(), strings.ToLower(path.Ext(header.Filename)))
	if err := h.images.Put(r.Context(), key, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		writeFailure(w, http.StatusInternalServerError, "upload failed")
		return
	}

	writeSuccess(w, http.StatusCreated, "upload done", uploadResponse{URL: h.images.PublicURL(key)})
}

type uploadResponse struct {
	URL string `json:"url"`
}
