package videos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
)

// blobReader is the slice of pkg/blob streaming needs.
type blobReader interface {
	Stat(ctx context.Context, id uuid.UUID) (*models.StoredFile, error)
	OpenRange(ctx context.Context, file *models.StoredFile, start, end int64) (io.ReadCloser, error)
}

// Service streams stored videos with byte-range support.
type Service interface {
	Stream(ctx context.Context, fileID uuid.UUID, rangeHeader string, w http.ResponseWriter) error
}

type service struct {
	blobs blobReader
	logg  *logger.Logger
}

// NewService builds a streaming service.
func NewService(blobs blobReader, logg *logger.Logger) (Service, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{blobs: blobs, logg: logg}, nil
}

// Stream writes the requested bytes of the file to w. No Range header means a
// full 200 response; a valid range yields 206 with Content-Range. Errors are
// returned before anything is written, so the caller can still emit the JSON
// error envelope.
func (s *service) Stream(ctx context.Context, fileID uuid.UUID, rangeHeader string, w http.ResponseWriter) error {
	file, err := s.blobs.Stat(ctx, fileID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Accept-Ranges", "bytes")

	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Length, 10))
		w.WriteHeader(http.StatusOK)
		if file.Length == 0 {
			return nil
		}
		return s.copyRange(ctx, file, 0, file.Length-1, w)
	}

	start, end, err := parseRange(rangeHeader, file.Length)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, file.Length))
	w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	w.WriteHeader(http.StatusPartialContent)
	return s.copyRange(ctx, file, start, end, w)
}

func (s *service) copyRange(ctx context.Context, file *models.StoredFile, start, end int64, w io.Writer) error {
	rc, err := s.blobs.OpenRange(ctx, file, start, end)
	if err != nil {
		return err
	}
	defer rc.Close()

	// io.Copy pulls chunk by chunk, so a slow client applies back-pressure to
	// the store instead of buffering the file in memory.
	if _, err := io.Copy(w, rc); err != nil {
		// headers are already on the wire; log instead of double-responding
		if s.logg != nil {
			ctx = s.logg.WithField(ctx, "file_id", file.ID.String())
			s.logg.Warn(ctx, "video stream aborted mid-transfer")
		}
		return nil
	}
	return nil
}
