package models

import (
	"time"

	"github.com/google/uuid"
)

// StoredFile is the catalog entry for a chunked blob. Length is the total byte
// size; the payload lives in FileChunk rows ordered by Seq.
type StoredFile struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Filename    string    `gorm:"column:filename;not null"`
	ContentType string    `gorm:"column:content_type;not null"`
	Length      int64     `gorm:"column:length;not null"`
	ChunkSize   int       `gorm:"column:chunk_size;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// FileChunk holds one contiguous slice of a stored file. Every chunk except
// the last is exactly ChunkSize bytes long.
type FileChunk struct {
	ID     uint      `gorm:"column:id;primaryKey;autoIncrement"`
	FileID uuid.UUID `gorm:"column:file_id;type:uuid;not null;uniqueIndex:idx_file_chunks_file_seq"`
	Seq    int       `gorm:"column:seq;not null;uniqueIndex:idx_file_chunks_file_seq"`
	Data   []byte    `gorm:"column:data;not null"`
}
