package videos

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/blob"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
)

type testEnv struct {
	svc   Service
	blobs *blob.Store
	ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:videos_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StoredFile{}, &models.FileChunk{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	blobs := blob.NewStore(db.FromGorm(conn), 32)
	svc, err := NewService(blobs, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{svc: svc, blobs: blobs, ctx: context.Background()}
}

func (e *testEnv) upload(t *testing.T, data []byte) uuid.UUID {
	t.Helper()
	file, err := e.blobs.Create(e.ctx, "clip.mp4", "video/mp4", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return file.ID
}

func payload(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251)
	}
	return out
}

func TestStreamFullBody(t *testing.T) {
	env := newTestEnv(t)
	data := payload(100)
	fileID := env.upload(t, data)

	rec := httptest.NewRecorder()
	if err := env.svc.Stream(env.ctx, fileID, "", rec); err != nil {
		t.Fatalf("stream: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "100" {
		t.Fatalf("unexpected content length %q", got)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Fatalf("unexpected accept-ranges %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Fatalf("body mismatch: got %d bytes", rec.Body.Len())
	}
}

func TestStreamPartialRange(t *testing.T) {
	env := newTestEnv(t)
	data := payload(100)
	fileID := env.upload(t, data)

	rec := httptest.NewRecorder()
	if err := env.svc.Stream(env.ctx, fileID, "bytes=10-19", rec); err != nil {
		t.Fatalf("stream: %v", err)
	}

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 10-19/100" {
		t.Fatalf("unexpected content-range %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "10" {
		t.Fatalf("unexpected content length %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), data[10:20]) {
		t.Fatalf("body mismatch for range 10-19")
	}
}

func TestStreamOpenEndedRangeClampsToEOF(t *testing.T) {
	env := newTestEnv(t)
	data := payload(100)
	fileID := env.upload(t, data)

	rec := httptest.NewRecorder()
	if err := env.svc.Stream(env.ctx, fileID, "bytes=90-", rec); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 90-99/100" {
		t.Fatalf("unexpected content-range %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), data[90:]) {
		t.Fatalf("body mismatch for open-ended range")
	}

	// end past the file is clamped, not rejected
	rec = httptest.NewRecorder()
	if err := env.svc.Stream(env.ctx, fileID, "bytes=95-4000", rec); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 95-99/100" {
		t.Fatalf("unexpected content-range %q", got)
	}
}

func TestStreamRangeSpanningChunks(t *testing.T) {
	env := newTestEnv(t)
	data := payload(100) // chunk size 32: chunks at 0,32,64,96
	fileID := env.upload(t, data)

	rec := httptest.NewRecorder()
	if err := env.svc.Stream(env.ctx, fileID, "bytes=30-70", rec); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if !bytes.Equal(rec.Body.Bytes(), data[30:71]) {
		t.Fatalf("body mismatch for cross-chunk range")
	}
}

func TestStreamUnsatisfiableRanges(t *testing.T) {
	env := newTestEnv(t)
	fileID := env.upload(t, payload(100))

	cases := []string{
		"bytes=50-10",
		"bytes=abc-20",
		"bytes=100-",
		"bytes=-",
		"items=0-10",
	}
	for _, header := range cases {
		rec := httptest.NewRecorder()
		err := env.svc.Stream(env.ctx, fileID, header, rec)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeRangeNotSatisfied {
			t.Fatalf("header %q: expected range error, got %v", header, err)
		}
	}
}

func TestStreamUnknownFile(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	err := env.svc.Stream(env.ctx, uuid.New(), "", rec)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
