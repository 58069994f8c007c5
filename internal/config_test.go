package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", AdminKey: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", AdminKey: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_KeyModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "key", AdminKey: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("key mode with admin key should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("key mode should be enabled")
	}
}

func TestAuthConfig_KeyModeEmptyKey(t *testing.T) {
	cfg := AuthConfig{Mode: "key", AdminKey: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("key mode with empty admin key should fail")
	}
	if !strings.Contains(err.Error(), "admin_key is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", AdminKey: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestExtractorConfig(t *testing.T) {
	cfg := NewDefaultConfig().Extractor
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default extractor config should pass: %v", err)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s", cfg.Timeout())
	}

	cfg.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero timeout should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "key"
	cfg.Auth.AdminKey = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
