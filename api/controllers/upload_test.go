package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/blob"
	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db/models"
)

func uploadTestStore(t *testing.T) *blob.Store {
	t.Helper()
	dsn := "file:upload_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StoredFile{}, &models.FileChunk{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return blob.NewStore(db.FromGorm(conn), 64)
}

func multipartVideo(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadVideo(t *testing.T) {
	logg := testLogger()
	store := uploadTestStore(t)
	media := config.MediaConfig{MaxUploadMB: 1, BlobChunkSizeKB: 1}

	t.Run("stores the part and returns the stream path", func(t *testing.T) {
		body, contentType := multipartVideo(t, "video", "demo.mp4", bytes.Repeat([]byte("v"), 300))
		req := httptest.NewRequest(http.MethodPost, "/products/upload/video", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		UploadVideo(store, media, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var envelope struct {
			Data uploadVideoResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.Filename != "demo.mp4" {
			t.Fatalf("expected filename demo.mp4, got %q", envelope.Data.Filename)
		}
		fileID, err := uuid.Parse(envelope.Data.FileID)
		if err != nil {
			t.Fatalf("file id not a uuid: %v", err)
		}
		if want := "/videos/" + fileID.String() + "/stream"; envelope.Data.StreamURL != want {
			t.Fatalf("expected stream url %s, got %s", want, envelope.Data.StreamURL)
		}
	})

	t.Run("rejects a missing part", func(t *testing.T) {
		body, contentType := multipartVideo(t, "clip", "demo.mp4", []byte("v"))
		req := httptest.NewRequest(http.MethodPost, "/products/upload/video", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		UploadVideo(store, media, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without a video part, got %d", rec.Code)
		}
	})
}
