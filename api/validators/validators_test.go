package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","quantity":2}`))
	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if dest.Email != "a@b.com" || dest.Quantity != 2 {
		t.Fatalf("unexpected decode result %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","quantity":2,"extra":true}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","quantity":0}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %v", appErr.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Errorf("unexpected email message %q", details["email"])
	}
	if details["quantity"] == "" {
		t.Errorf("expected quantity message")
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3", nil)
	got, err := ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil || got != 3 {
		t.Fatalf("expected 3, got %d err=%v", got, err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "page", 1, 1, 100)
	if err != nil || got != 1 {
		t.Fatalf("expected default 1, got %d err=%v", got, err)
	}

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 100); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for non-numeric, got %v", err)
	}

	r = httptest.NewRequest("GET", "/?page=500", nil)
	if _, err := ParseQueryInt(r, "page", 1, 1, 100); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for out of range, got %v", err)
	}
}

func TestParsePathUUID(t *testing.T) {
	id := uuid.New()
	got, err := ParsePathUUID(id.String(), "id")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s err=%v", id, got, err)
	}

	if _, err := ParsePathUUID("nope", "id"); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
}
