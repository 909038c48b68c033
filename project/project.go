package project

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigFiles lists the project file names in lookup order.
var ConfigFiles = []string{"onescript.toml", "onescript.yaml", "onescript.yml"}

// Project is a directory tree of OneScript sources.
type Project struct {
	RootDir    string
	ConfigFile string // empty when no project file was found
	Config     Config
}

// Config is the contents of a project file.
type Config struct {
	Extensions []string     `toml:"extensions" yaml:"extensions"`
	Exclude    []string     `toml:"exclude" yaml:"exclude"`
	Workers    int          `toml:"workers" yaml:"workers"`
	Format     FormatConfig `toml:"format" yaml:"format"`
}

// FormatConfig configures the source printer.
type FormatConfig struct {
	// Language is "en", "ru" or "keep".
	Language string `toml:"language" yaml:"language"`
	Indent   string `toml:"indent" yaml:"indent"`
}

// DefaultConfig returns the configuration used when no project file
// exists.
func DefaultConfig() Config {
	return Config{
		Extensions: []string{".os", ".bsl"},
		Exclude:    []string{".git", "node_modules"},
		Workers:    runtime.NumCPU(),
		Format: FormatConfig{
			Language: "keep",
			Indent:   "\t",
		},
	}
}

// Load opens the project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom opens the project rooted at rootDir. The first project file
// found in rootDir is read; without one the defaults apply.
func LoadFrom(rootDir string) (*Project, error) {
	proj := &Project{
		RootDir: rootDir,
		Config:  DefaultConfig(),
	}

	for _, name := range ConfigFiles {
		path := filepath.Join(rootDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		proj.ConfigFile = path
		proj.Config = cfg
		break
	}

	return proj, nil
}

// LoadConfig reads a TOML or YAML project file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Format.Indent == "" {
		c.Format.Indent = "\t"
	}
	switch c.Format.Language {
	case "":
		c.Format.Language = "keep"
	case "en", "ru", "keep":
	default:
		return fmt.Errorf("format.language must be en, ru or keep, got %q", c.Format.Language)
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
	return nil
}

// IsSource reports whether path has one of the configured extensions.
func (p *Project) IsSource(path string) bool {
	return slices.Contains(p.Config.Extensions, strings.ToLower(filepath.Ext(path)))
}

// IsExcluded reports whether a directory with the given base name is
// skipped when walking the project.
func (p *Project) IsExcluded(name string) bool {
	return slices.Contains(p.Config.Exclude, name)
}

// SourceFiles returns the source files below the project root in lexical
// order.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != p.RootDir && p.IsExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if p.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", p.RootDir, err)
	}
	return files, nil
}
