package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func TestAppErrorStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("x"), fiber.StatusBadRequest},
		{NewConflictError("x"), fiber.StatusConflict},
		{NewNotFoundError("x"), fiber.StatusNotFound},
		{NewNoVarianceError("x"), fiber.StatusUnprocessableEntity},
		{NewExternalError("x", errors.New("boom")), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.Status(); got != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.want, got)
		}
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("upload: %w", NewExternalError("gagal menyimpan buku", cause))

	if !IsExternal(err) {
		t.Fatal("expected external kind through wrapping")
	}
	if IsNotFound(err) || IsValidation(err) || IsNoVariance(err) {
		t.Fatal("unexpected kind match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
	if got := NewExternalError("gagal", cause).Error(); got != "gagal: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
}

type errorBody struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
}

func doError(t *testing.T, handler fiber.Handler) (int, errorBody) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp.StatusCode, body
}

func TestErrorHandlerKeepsSpecificCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		contains string
	}{
		{"validation", NewValidationError("Missing required fields"), 400, "BAD_REQUEST", "Missing required fields"},
		{"not found", NewNotFoundError("Book not found"), 404, "NOT_FOUND", "Book not found"},
		{"no variance", NewNoVarianceError("rating distribution has no variance"), 422, "VALIDATION_ERROR", "no variance"},
		{"external passes cause", NewExternalError("upload gambar gagal", errors.New("bucket down")), 500, "INTERNAL_ERROR", "bucket down"},
		{"fiber error", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), 413, "PAYLOAD_TOO_LARGE", "too big"},
		{"unknown", errors.New("kaboom"), 500, "INTERNAL_ERROR", "kaboom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doError(t, func(c *fiber.Ctx) error { return tt.err })
			if status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, status)
			}
			if body.Success {
				t.Fatal("expected success=false")
			}
			if body.ErrorCode != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, body.ErrorCode)
			}
			if !strings.Contains(body.Message, tt.contains) {
				t.Errorf("expected message to contain %q, got %q", tt.contains, body.Message)
			}
		})
	}
}

func TestFromAppErrorRendersValidatorFields(t *testing.T) {
	type req struct {
		Title string `validate:"required"`
	}
	verr := validator.New().Struct(req{})

	status, body := doError(t, func(c *fiber.Ctx) error {
		return FromAppError(c, NewValidationError("Missing required fields").WithCause(verr))
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body.Message != "Missing required fields" {
		t.Errorf("unexpected message %q", body.Message)
	}
	if tags := body.Errors["Title"]; len(tags) != 1 || tags[0] != "required" {
		t.Errorf("expected Title=[required], got %v", body.Errors)
	}
}

