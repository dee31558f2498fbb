package internal

import (
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestHTTPConfigValidate(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		c := HTTPConfig{Port: port}
		if err := c.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
	c := HTTPConfig{Port: 8080}
	if err := c.Validate(); err != nil {
		t.Errorf("port 8080: %v", err)
	}
	if got := c.Address(); got != ":8080" {
		t.Errorf("Address = %q", got)
	}
}

func TestAuthConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"empty mode defaults to disabled", AuthConfig{LocalUser: LocalUserConfig{ID: "local"}}, false},
		{"disabled without local user", AuthConfig{Mode: AuthModeDisabled}, true},
		{"static with token", AuthConfig{Mode: AuthModeStatic, Token: "t", LocalUser: LocalUserConfig{ID: "u"}}, false},
		{"static without token", AuthConfig{Mode: AuthModeStatic, LocalUser: LocalUserConfig{ID: "u"}}, true},
		{"static without local user", AuthConfig{Mode: AuthModeStatic, Token: "t"}, true},
		{"remote with url", AuthConfig{Mode: AuthModeRemote, VerifyURL: "https://auth.example/verify"}, false},
		{"remote without url", AuthConfig{Mode: AuthModeRemote}, true},
		{"unknown mode", AuthConfig{Mode: "oauth"}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: %v", tc.name, err)
		}
	}
}

func TestMediaConfigValidate(t *testing.T) {
	c := MediaConfig{CloudName: "cloud", MaxUploadBytes: 1, TimeoutSeconds: 1}
	if err := c.Validate(); err == nil {
		t.Error("missing base_url: expected error")
	}
	c.BaseURL = "https://media.example"
	if err := c.Validate(); err != nil {
		t.Errorf("valid media config: %v", err)
	}
}

func TestSummarizerEnabled(t *testing.T) {
	c := SummarizerConfig{Endpoint: "https://x", Model: "m"}
	if c.Enabled() {
		t.Error("enabled without token")
	}
	c.Token = "tok"
	if !c.Enabled() {
		t.Error("not enabled with full config")
	}
}

func TestSMTPConfig(t *testing.T) {
	var c SMTPConfig
	if c.Enabled() {
		t.Error("empty SMTP config reported enabled")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("disabled SMTP config: %v", err)
	}

	c = SMTPConfig{Host: "smtp.example", From: "noreply@example.com"}
	if !c.Enabled() {
		t.Error("not enabled with host and from")
	}
	if err := c.Validate(); err == nil {
		t.Error("enabled without port: expected error")
	}
	c.Port = 587
	if err := c.Validate(); err != nil {
		t.Errorf("valid SMTP config: %v", err)
	}
}

func TestLoadSecretsOverlay(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Media.APIKey = "from-file"

	t.Setenv("INKWELL_MEDIA_API_KEY", "from-env")
	t.Setenv("INKWELL_SUMMARIZER_TOKEN", "hf-token")

	if err := cfg.LoadSecrets(); err != nil {
		t.Fatalf("LoadSecrets: %v", err)
	}
	if cfg.Media.APIKey != "from-env" {
		t.Errorf("api key = %q, want env value", cfg.Media.APIKey)
	}
	if cfg.Summarizer.Token != "hf-token" {
		t.Errorf("summarizer token = %q", cfg.Summarizer.Token)
	}
	// Unset variables leave file values untouched.
	if cfg.Media.BaseURL != "https://api.mediastash.io" {
		t.Errorf("base url = %q", cfg.Media.BaseURL)
	}
}
