package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gadgetbay/gadgetbay-backend/api/responses"
	"github.com/gadgetbay/gadgetbay-backend/api/validators"
	"github.com/gadgetbay/gadgetbay-backend/internal/videos"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
)

// StreamVideo serves a stored video, honoring a single Range request. The
// service validates everything before writing headers, so failures still go
// out as JSON error envelopes.
func StreamVideo(svc videos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID, err := validators.ParsePathUUID(chi.URLParam(r, "fileId"), "fileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Stream(r.Context(), fileID, r.Header.Get("Range"), w); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
	}
}
