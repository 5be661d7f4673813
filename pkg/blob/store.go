package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	apperrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
)

// DefaultChunkSize mirrors the historical 255 KiB chunking of the video store.
const DefaultChunkSize = 255 * 1024

// Store persists binary payloads as fixed-size chunk rows so large files can
// be written and ranged-read without ever buffering the whole payload.
type Store struct {
	client    *db.Client
	chunkSize int
}

// NewStore builds a Store. chunkSize <= 0 falls back to DefaultChunkSize.
func NewStore(client *db.Client, chunkSize int) *Store {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Store{client: client, chunkSize: chunkSize}
}

// Create streams r into chunk rows and returns the catalog entry. The file row
// and every chunk commit atomically; a failed upload leaves nothing behind.
func (s *Store) Create(ctx context.Context, filename, contentType string, r io.Reader) (*models.StoredFile, error) {
	if filename == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "filename is required")
	}
	if r == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "empty upload body")
	}

	file := &models.StoredFile{
		ID:          uuid.New(),
		Filename:    filename,
		ContentType: contentType,
		ChunkSize:   s.chunkSize,
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return fmt.Errorf("creating file row: %w", err)
		}

		buf := make([]byte, s.chunkSize)
		var total int64
		seq := 0
		for {
			n, readErr := io.ReadFull(r, buf)
			if n > 0 {
				chunk := &models.FileChunk{
					FileID: file.ID,
					Seq:    seq,
					Data:   append([]byte(nil), buf[:n]...),
				}
				if err := tx.Create(chunk).Error; err != nil {
					return fmt.Errorf("writing chunk %d: %w", seq, err)
				}
				seq++
				total += int64(n)
			}
			if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
				break
			}
			if readErr != nil {
				return fmt.Errorf("reading upload body: %w", readErr)
			}
		}

		file.Length = total
		if err := tx.Model(&models.StoredFile{}).
			Where("id = ?", file.ID).
			UpdateColumn("length", total).Error; err != nil {
			return fmt.Errorf("finalizing file length: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Stat loads the catalog entry without touching any chunk payload.
func (s *Store) Stat(ctx context.Context, id uuid.UUID) (*models.StoredFile, error) {
	var file models.StoredFile
	err := s.client.DB().WithContext(ctx).
		Where("id = ?", id).
		First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "file not found")
		}
		return nil, fmt.Errorf("loading file %s: %w", id, err)
	}
	return &file, nil
}

// OpenRange returns a reader over bytes [start, end] of the file. Chunks are
// fetched lazily one at a time as the caller consumes the reader.
func (s *Store) OpenRange(ctx context.Context, file *models.StoredFile, start, end int64) (io.ReadCloser, error) {
	if file == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "file not found")
	}
	if start < 0 || end >= file.Length || start > end {
		return nil, apperrors.New(apperrors.CodeRangeNotSatisfied, "requested range is outside the file")
	}
	return &rangeReader{
		ctx:       ctx,
		conn:      s.client.DB(),
		fileID:    file.ID,
		chunkSize: int64(file.ChunkSize),
		pos:       start,
		end:       end,
	}, nil
}

// Delete removes the catalog entry and all of its chunks atomically.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.StoredFile{})
		if res.Error != nil {
			return fmt.Errorf("deleting file row: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.CodeNotFound, "file not found")
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.FileChunk{}).Error; err != nil {
			return fmt.Errorf("deleting chunks: %w", err)
		}
		return nil
	})
}

// rangeReader streams a byte range chunk by chunk.
type rangeReader struct {
	ctx       context.Context
	conn      *gorm.DB
	fileID    uuid.UUID
	chunkSize int64
	pos       int64 // next absolute byte to return
	end       int64 // last absolute byte to return, inclusive
	buf       []byte
}

func (r *rangeReader) Read(p []byte) (int, error) {
	if r.pos > r.end && len(r.buf) == 0 {
		return 0, io.EOF
	}
	if len(r.buf) == 0 {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	r.pos += int64(n)
	if n == 0 && r.pos > r.end {
		return 0, io.EOF
	}
	return n, nil
}

// fill loads the chunk containing pos and slices it to the remaining range.
func (r *rangeReader) fill() error {
	seq := r.pos / r.chunkSize
	var chunk models.FileChunk
	err := r.conn.WithContext(r.ctx).
		Where("file_id = ? AND seq = ?", r.fileID, seq).
		First(&chunk).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("missing chunk %d for file %s", seq, r.fileID)
		}
		return fmt.Errorf("loading chunk %d: %w", seq, err)
	}

	offset := r.pos - seq*r.chunkSize
	if offset >= int64(len(chunk.Data)) {
		return fmt.Errorf("chunk %d shorter than expected for file %s", seq, r.fileID)
	}
	data := chunk.Data[offset:]

	remaining := r.end - r.pos + 1
	if int64(len(data)) > remaining {
		data = data[:remaining]
	}
	r.buf = data
	return nil
}

func (r *rangeReader) Close() error {
	r.buf = nil
	r.pos = r.end + 1
	return nil
}
