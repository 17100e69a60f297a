package auth

import "testing"

func testService(t *testing.T) *Service {
	t.Helper()
	hash, err := HashPassword("road-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewService("test-secret", "operator", hash)
}

func TestLoginAndValidate(t *testing.T) {
	svc := testService(t)

	tokens, err := svc.Login(LoginRequest{Username: "operator", Password: "road-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}

	operator, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil || operator != "operator" {
		t.Fatalf("validate: %v %q", err, operator)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := testService(t)

	if _, err := svc.Login(LoginRequest{Username: "operator", Password: "wrong"}); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := svc.Login(LoginRequest{Username: "intruder", Password: "road-pass"}); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := testService(t)
	if _, err := svc.ValidateAccessToken("not-a-token"); err == nil {
		t.Fatalf("expected error")
	}

	other := NewService("other-secret", "operator", svc.passwordHash)
	tokens, err := svc.Login(LoginRequest{Username: "operator", Password: "road-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := other.ValidateAccessToken(tokens.AccessToken); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}
