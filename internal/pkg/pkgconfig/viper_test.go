package pkgconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestViperConfigValues(t *testing.T) {
	path := writeConfigFile(t, "int: 42\nbool: true\nstring: hi\narray: a, b,,c\nlist:\n  - x\n  - \" y \"\nbackoff: 250ms\n")

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	defer func() {
		if err := cfg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if got := cfg.GetInt("int"); got != 42 {
		t.Fatalf("GetInt: expected 42, got %d", got)
	}
	if got := cfg.GetBool("bool"); got != true {
		t.Fatalf("GetBool: expected true, got %v", got)
	}
	if got := cfg.GetString("string"); got != "hi" {
		t.Fatalf("GetString: expected hi, got %q", got)
	}
	if got := cfg.GetArray("array"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("GetArray: unexpected value: %#v", got)
	}
	if got := cfg.GetArray("list"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("GetArray list: unexpected value: %#v", got)
	}
	if got := cfg.GetArray("absent"); len(got) != 0 {
		t.Fatalf("GetArray absent: expected empty, got %#v", got)
	}
	if got := cfg.GetDuration("backoff"); got != 250*time.Millisecond {
		t.Fatalf("GetDuration: expected 250ms, got %v", got)
	}
}

func TestViperArrayEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "server:\n  cors:\n    allowed_origins:\n      - \"*\"\n")
	t.Setenv("PLACEMENT_SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	want := []string{"https://a.example", "https://b.example"}
	if got := cfg.GetArray("server.cors.allowed_origins"); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected origins: %#v", got)
	}
}

func TestViperEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "server:\n  address:\n    http: \":8080\"\n")
	t.Setenv("PLACEMENT_SERVER_ADDRESS_HTTP", ":9090")

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("server.address.http"); got != ":9090" {
		t.Fatalf("expected env override :9090, got %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("PLACEMENT_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("PLACEMENT_DOTENV_PROBE", "")
	os.Unsetenv("PLACEMENT_DOTENV_PROBE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("PLACEMENT_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("expected loaded, got %q", got)
	}
}
