package helper

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestResolvePaging(t *testing.T) {
	tests := []struct {
		query   string
		ok      bool
		page    int
		perPage int
		offset  int
	}{
		{"", false, 0, 0, 0},
		{"?page=2", true, 2, 20, 20},
		{"?page=3&per_page=5", true, 3, 5, 10},
		{"?limit=500", true, 1, 200, 0},
		{"?page=-1&per_page=abc", true, 1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var (
				got Paging
				ok  bool
			)
			app.Get("/", func(c *fiber.Ctx) error {
				got, ok = ResolvePaging(c, 20, 200)
				return nil
			})
			if _, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil)); err != nil {
				t.Fatal(err)
			}
			if ok != tt.ok {
				t.Fatalf("ok: expected %v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if got.Page != tt.page || got.PerPage != tt.perPage || got.Offset != tt.offset || got.Limit != tt.perPage {
				t.Fatalf("unexpected paging %+v", got)
			}
		})
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20, 20)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Fatalf("unexpected pagination %+v", p)
	}
	empty := BuildPaginationFromPage(0, 1, 20, 0)
	if empty.TotalPages != 1 || empty.HasNext || empty.HasPrev {
		t.Fatalf("unexpected empty pagination %+v", empty)
	}
}

func TestJsonCreatedWithExtraKeys(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonCreatedWith(c, "", fiber.Map{"id": "b1"}, fiber.Map{"file_url": "https://cdn/x.png"})
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true || body["message"] != "created" || body["file_url"] != "https://cdn/x.png" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestStatusIndex(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return StatusIndex(c, "success fetching api") })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Status struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"status"`
		Data any `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body.Status.Code != 200 || body.Status.Message != "success fetching api" || body.Data != nil {
		t.Fatalf("unexpected body %s", raw)
	}
}
