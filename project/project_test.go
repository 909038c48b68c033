package project

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if proj.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want none", proj.ConfigFile)
	}
	cfg := proj.Config
	if strings.Join(cfg.Extensions, ",") != ".os,.bsl" {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Format.Language != "keep" || cfg.Format.Indent != "\t" {
		t.Errorf("Format = %+v", cfg.Format)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			"toml",
			"onescript.toml",
			"extensions = [\"os\"]\nworkers = 2\n\n[format]\nlanguage = \"ru\"\nindent = \"    \"\n",
		},
		{
			"yaml",
			"onescript.yaml",
			"extensions: [\".os\"]\nworkers: 2\nformat:\n  language: ru\n  indent: \"    \"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			proj, err := LoadFrom(dir)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			cfg := proj.Config
			if proj.ConfigFile != filepath.Join(dir, tt.file) {
				t.Errorf("ConfigFile = %q", proj.ConfigFile)
			}
			if strings.Join(cfg.Extensions, ",") != ".os" {
				t.Errorf("Extensions = %v", cfg.Extensions)
			}
			if cfg.Workers != 2 {
				t.Errorf("Workers = %d", cfg.Workers)
			}
			if cfg.Format.Language != "ru" || cfg.Format.Indent != "    " {
				t.Errorf("Format = %+v", cfg.Format)
			}
			if strings.Join(cfg.Exclude, ",") != ".git,node_modules" {
				t.Errorf("Exclude = %v, want defaults", cfg.Exclude)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "onescript.toml")
	writeFile(t, bad, "[format]\nlanguage = \"de\"\n")
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "format.language") {
		t.Errorf("err = %v, want language error", err)
	}

	broken := filepath.Join(dir, "onescript.yaml")
	writeFile(t, broken, "workers: [\n")
	if _, err := LoadConfig(broken); err == nil {
		t.Error("expected a parse error")
	}

	if _, err := LoadConfig(filepath.Join(dir, "onescript.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.os"), "")
	writeFile(t, filepath.Join(dir, "lib", "Module.BSL"), "")
	writeFile(t, filepath.Join(dir, "lib", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".git", "hook.os"), "")
	writeFile(t, filepath.Join(dir, "node_modules", "x", "y.os"), "")

	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	files, err := proj.SourceFiles()
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if got := strings.Join(rel, ","); got != "lib/Module.BSL,main.os" {
		t.Errorf("SourceFiles = %s", got)
	}
}
