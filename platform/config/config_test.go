package config

import "testing"

func TestFeatureFlagsFollowCredentials(t *testing.T) {
	cfg := &Config{}
	if cfg.IsEnrichmentEnabled() || cfg.IsDraftingEnabled() || cfg.IsGmailEnabled() {
		t.Error("all features must be off without credentials")
	}

	cfg.ExaAPIKey = "exa-key"
	if !cfg.IsEnrichmentEnabled() {
		t.Error("expected enrichment enabled with an Exa key")
	}

	cfg.AnthropicAPIKey = "anthropic-key"
	if !cfg.IsDraftingEnabled() {
		t.Error("expected drafting enabled with an Anthropic key")
	}

	cfg.GmailClientID = "client-id"
	if cfg.IsGmailEnabled() {
		t.Error("gmail needs both client id and secret")
	}
	cfg.GmailClientSecret = "client-secret"
	if !cfg.IsGmailEnabled() {
		t.Error("expected gmail enabled with full OAuth credentials")
	}
}

func TestLoadRejectsCORSWildcardWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/outreach")
	t.Setenv("CORS_ALLOW_ALL", "true")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected wildcard origins with credentials to be rejected")
	}
}
