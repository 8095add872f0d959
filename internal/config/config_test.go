package config

import "testing"

func TestValidateRejectsEmptyJWTSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		cfg := Config{JWTSecret: secret}
		if err := cfg.validate(); err == nil {
			t.Fatalf("expected validation error for JWT secret %q", secret)
		}
	}
}

func TestValidateAcceptsConfiguredSecret(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret"}
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
