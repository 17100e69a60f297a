package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func testApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	svc := testService(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)
	return app, svc
}

func TestLoginHandler(t *testing.T) {
	app, svc := testApp(t)

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"operator","password":"road-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var tokens TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := svc.ValidateAccessToken(tokens.AccessToken); err != nil {
		t.Fatalf("issued token did not validate: %v", err)
	}
}

func TestLoginHandlerRejects(t *testing.T) {
	app, _ := testApp(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"operator","password":"nope"}`, fiber.StatusUnauthorized},
		{"missing fields", `{"username":"operator"}`, fiber.StatusBadRequest},
		{"bad json", `{`, fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: request: %v", tc.name, err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
	}
}

func TestJWTMiddleware(t *testing.T) {
	svc := testService(t)
	app := fiber.New()
	app.Get("/protected", JWTMiddleware("test-secret"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("operator").(string))
	})

	tokens, err := svc.Login(LoginRequest{Username: "operator", Password: "road-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "operator" {
		t.Fatalf("expected operator local, got %q", body)
	}

	for _, header := range []string{"", "Bearer bogus", "Basic abc"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.StatusCode)
		}
	}
}
