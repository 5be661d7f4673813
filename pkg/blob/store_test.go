package blob

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	apperrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
)

func newTestStore(t *testing.T, chunkSize int) *Store {
	t.Helper()
	dsn := "file:blob_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StoredFile{}, &models.FileChunk{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewStore(db.FromGorm(conn), chunkSize)
}

func payload(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251)
	}
	return out
}

func TestCreateSplitsIntoChunks(t *testing.T) {
	store := newTestStore(t, 1024)
	ctx := context.Background()

	data := payload(2500) // 2 full chunks + 452-byte tail
	file, err := store.Create(ctx, "demo.mp4", "video/mp4", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if file.Length != 2500 {
		t.Fatalf("expected length 2500, got %d", file.Length)
	}
	if file.ChunkSize != 1024 {
		t.Fatalf("expected chunk size 1024, got %d", file.ChunkSize)
	}

	var count int64
	if err := store.client.DB().Model(&models.FileChunk{}).
		Where("file_id = ?", file.ID).Count(&count).Error; err != nil {
		t.Fatalf("count chunks: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 chunks, got %d", count)
	}

	stat, err := store.Stat(ctx, file.ID)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if stat.Length != 2500 || stat.Filename != "demo.mp4" {
		t.Fatalf("unexpected stat: %+v", stat)
	}
}

func TestOpenRangeFullRead(t *testing.T) {
	store := newTestStore(t, 1024)
	ctx := context.Background()

	data := payload(3000)
	file, err := store.Create(ctx, "demo.mp4", "video/mp4", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rc, err := store.OpenRange(ctx, file, 0, file.Length-1)
	if err != nil {
		t.Fatalf("open range: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round-trip mismatch: got %d bytes", len(got))
	}
}

func TestOpenRangeCrossesChunkBoundary(t *testing.T) {
	store := newTestStore(t, 1024)
	ctx := context.Background()

	data := payload(3000)
	file, err := store.Create(ctx, "demo.mp4", "video/mp4", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// bytes 1000..2100 span three chunks
	rc, err := store.OpenRange(ctx, file, 1000, 2100)
	if err != nil {
		t.Fatalf("open range: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !bytes.Equal(got, data[1000:2101]) {
		t.Fatalf("range mismatch: got %d bytes, want %d", len(got), 1101)
	}
}

func TestOpenRangeRejectsOutOfBounds(t *testing.T) {
	store := newTestStore(t, 1024)
	ctx := context.Background()

	file, err := store.Create(ctx, "demo.mp4", "video/mp4", bytes.NewReader(payload(100)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		name       string
		start, end int64
	}{
		{"start past eof", 100, 100},
		{"end past eof", 0, 100},
		{"start after end", 50, 10},
		{"negative start", -1, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.OpenRange(ctx, file, tc.start, tc.end)
			appErr := apperrors.As(err)
			if appErr == nil || appErr.Code() != apperrors.CodeRangeNotSatisfied {
				t.Fatalf("expected range error, got %v", err)
			}
		})
	}
}

func TestDeleteRemovesChunks(t *testing.T) {
	store := newTestStore(t, 1024)
	ctx := context.Background()

	file, err := store.Create(ctx, "demo.mp4", "video/mp4", bytes.NewReader(payload(2048)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(ctx, file.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Stat(ctx, file.ID); apperrors.As(err) == nil {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	var count int64
	if err := store.client.DB().Model(&models.FileChunk{}).
		Where("file_id = ?", file.ID).Count(&count).Error; err != nil {
		t.Fatalf("count chunks: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 chunks after delete, got %d", count)
	}
}

func TestDeleteMissingFile(t *testing.T) {
	store := newTestStore(t, 1024)

	err := store.Delete(context.Background(), uuid.New())
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
