package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
profiles:
  github:
    secret: kJ8mN2pQ5tR7vX1zB4cE6gH9jL3nP8qS2uW5yA7bD0fG3hK6
  legacy:
    secret: tmpsecret
`)

	_, profiles, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if len(profiles) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(profiles))
	}

	github := profiles["github"]
	if github.Secret != "kJ8mN2pQ5tR7vX1zB4cE6gH9jL3nP8qS2uW5yA7bD0fG3hK6" {
		t.Errorf("Unexpected secret for 'github': %q", github.Secret)
	}
	if github.WeakSecret {
		t.Error("Strong secret flagged as weak")
	}

	// Weak secrets load fine but carry the flag
	legacy := profiles["legacy"]
	if legacy.Secret != "tmpsecret" {
		t.Errorf("Unexpected secret for 'legacy': %q", legacy.Secret)
	}
	if !legacy.WeakSecret {
		t.Error("Expected 'tmpsecret' to be flagged as weak")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")

	config, profiles, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() returned error for empty file: %v", err)
	}
	if config.Profiles == nil {
		t.Error("Expected initialized Profiles map for empty file")
	}
	if len(profiles) != 0 {
		t.Errorf("Expected no profiles, got %d", len(profiles))
	}
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
profiles:
  github: {}
`)

	if _, _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for profile without secret")
	}
}

func TestLoadConfig_InvalidName(t *testing.T) {
	path := writeConfig(t, `
profiles:
  "bad name":
    secret: kJ8mN2pQ5tR7vX1zB4cE6gH9jL3nP8qS2uW5yA7bD0fG3hK6
`)

	if _, _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid profile name")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(map[string]*Profile{
		"b": {Name: "b", Secret: "s1"},
		"a": {Name: "a", Secret: "s2"},
	})

	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	names := registry.List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("List() = %v, want [a b]", names)
	}

	p, err := registry.Get("a")
	if err != nil {
		t.Fatalf("Get(a) returned error: %v", err)
	}
	if p.Secret != "s2" {
		t.Errorf("Get(a).Secret = %q, want s2", p.Secret)
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Error("Expected error for unknown profile")
	}
}
