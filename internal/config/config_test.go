package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.BasePath != DefaultBasePath {
		t.Errorf("BasePath = %q, want %q", cfg.BasePath, DefaultBasePath)
	}
	if cfg.API.BaseURL != DefaultAPIBaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultAPIBaseURL)
	}
	if cfg.UI.PageSize != 20 || cfg.UI.FeaturedCount != 10 || cfg.UI.SidebarCount != 6 {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !stderrors.Is(err, errors.New("E121")) {
		t.Errorf("Load of empty dir = %v, want E121", err)
	}

	configJSON := `{
  "basePath": "/app/",
  "api": {
    "psid": "file-psid",
    "timeout": "3s"
  },
  "server": {
    "port": 9000,
    "host": "0.0.0.0",
    "s3": {"bucket": "assets", "region": "eu-west-1"},
    "reload": {"enabled": true}
  },
  "ui": {"pageSize": 12}
}
`
	writeConfig(t, tmpDir, configJSON)
	t.Setenv(EnvPSID, "")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvPort, "")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.BasePath != "/app/" {
		t.Errorf("BasePath = %q", cfg.BasePath)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.API.PSID != "file-psid" {
		t.Errorf("API.PSID = %q", cfg.API.PSID)
	}
	if got := cfg.APITimeout(); got != 3*time.Second {
		t.Errorf("APITimeout() = %v", got)
	}
	if got := cfg.TagCacheTTL(); got != time.Hour {
		t.Errorf("TagCacheTTL() = %v, want default 1h", got)
	}
	wantS3 := S3Config{Bucket: "assets", Region: "eu-west-1"}
	if diff := cmp.Diff(wantS3, cfg.Server.S3); diff != "" {
		t.Errorf("S3 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{DefaultStaticDir}, cfg.Server.Reload.Watch); diff != "" {
		t.Errorf("Reload.Watch mismatch (-want +got):\n%s", diff)
	}
	if cfg.UI.PageSize != 12 || cfg.UI.FeaturedCount != 10 {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"server": `)

	_, err := Load(tmpDir)
	if !stderrors.Is(err, errors.New("E120")) {
		t.Fatalf("Load = %v, want E120", err)
	}
	if !strings.Contains(err.Error(), ConfigFileName) {
		t.Errorf("error does not name the file: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"api": {"psid": "file", "accessKey": "file-key"}, "server": {"port": 9000}}`)

	t.Setenv(EnvPSID, "env-psid")
	t.Setenv(EnvAccessKey, "env-key")
	t.Setenv(EnvPort, "7070")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.PSID != "env-psid" || cfg.API.AccessKey != "env-key" {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
}

func TestApplyEnvBadPort(t *testing.T) {
	cfg := New()
	env := map[string]string{EnvPort: "eighty"}

	err := cfg.ApplyEnv(func(k string) string { return env[k] })
	if !stderrors.Is(err, errors.New("E122")) {
		t.Errorf("ApplyEnv = %v, want E122", err)
	}
}

func TestLoadOptional(t *testing.T) {
	t.Setenv(EnvPSID, "from-env")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvPort, "")

	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if cfg.API.PSID != "from-env" {
		t.Errorf("API.PSID = %q", cfg.API.PSID)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q for defaults", cfg.Path())
	}

	bad := t.TempDir()
	writeConfig(t, bad, `not json`)
	if _, err := LoadOptional(bad); err == nil {
		t.Error("LoadOptional ignored a broken file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"relative base path", func(c *Config) { c.BasePath = "app/" }},
		{"api url without scheme", func(c *Config) { c.API.BaseURL = "pt.protoawe.com/api" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"negative ttl", func(c *Config) { c.API.TagCacheTTL = "-1s" }},
		{"bad reload interval", func(c *Config) { c.Server.Reload.Interval = "10" }},
		{"negative page size", func(c *Config) { c.UI.PageSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !stderrors.Is(err, errors.New("E122")) {
				t.Errorf("Validate() = %v, want E122", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Save without a path succeeded")
	}

	cfg.BasePath = "/videos/"
	cfg.Server.Metrics = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	t.Setenv(EnvPSID, "")
	t.Setenv(EnvAccessKey, "")
	t.Setenv(EnvPort, "")
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, loaded, cmp.AllowUnexported(Config{})); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}

	loaded.Name = "Renamed"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestAddressAndPaths(t *testing.T) {
	cfg := New()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3000
	cfg.BasePath = "/app/"

	if got := cfg.Address(); got != "0.0.0.0:3000" {
		t.Errorf("Address() = %q", got)
	}
	if got := cfg.URL(); got != "http://0.0.0.0:3000/app/" {
		t.Errorf("URL() = %q", got)
	}

	cfg.configPath = "/srv/site/vpbrowse.json"
	if got := cfg.StaticPath(); got != filepath.Join("/srv/site", DefaultStaticDir) {
		t.Errorf("StaticPath() = %q", got)
	}
	cfg.Server.StaticDir = "/var/www"
	if got := cfg.StaticPath(); got != "/var/www" {
		t.Errorf("StaticPath() = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() disagrees with the files on disk")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
