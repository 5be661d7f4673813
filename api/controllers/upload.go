package controllers

import (
	"net/http"

	"github.com/gadgetbay/gadgetbay-backend/api/responses"
	productsvc "github.com/gadgetbay/gadgetbay-backend/internal/products"
	"github.com/gadgetbay/gadgetbay-backend/pkg/blob"
	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
)

type uploadVideoResponse struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	StreamURL string `json:"stream_url"`
}

// UploadVideo accepts a multipart "video" part, stores it in the blob store
// and returns the file id plus its streaming path. The body size is capped
// before the multipart reader ever touches it.
func UploadVideo(store *blob.Store, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes())

		file, header, err := r.FormFile("video")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "video file part is required"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		stored, err := store.Create(r.Context(), header.Filename, contentType, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, uploadVideoResponse{
			FileID:    stored.ID.String(),
			Filename:  stored.Filename,
			StreamURL: productsvc.StreamURL(stored.ID),
		})
	}
}
