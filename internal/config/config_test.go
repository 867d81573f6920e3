package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Fatalf("expected memory store by default, got %s", cfg.StoreBackend)
	}
	if cfg.ContactsTable != "contacts" {
		t.Fatalf("expected default table, got %s", cfg.ContactsTable)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.BackendBaseURL != "http://localhost:8080" {
		t.Fatalf("expected default backend URL, got %s", cfg.BackendBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Dynamo")
	t.Setenv("CONTACTS_TABLE", "contacts_prod")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.StoreBackend != StoreDynamo {
		t.Fatalf("expected dynamo store (lower-cased), got %s", cfg.StoreBackend)
	}
	if cfg.ContactsTable != "contacts_prod" {
		t.Fatalf("expected overridden table, got %s", cfg.ContactsTable)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected overridden database url, got %s", cfg.DatabaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected trimmed origin list, got %v", cfg.CORSAllowedOrigins)
	}
}
