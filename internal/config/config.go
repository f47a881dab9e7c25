package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the release source. The installer talks to the public GitHub
// API unless a settings file overrides these.
const (
	DefaultOwner   = "xai-community"
	DefaultRepo    = "grok-search-mcp"
	DefaultBaseURL = "https://api.github.com"
)

// Settings holds the optional installer overrides loaded from a YAML file.
// Every field is optional; zero values fall back to the defaults above or to
// the per-OS paths computed by the platform package.
type Settings struct {
	Owner      string `yaml:"owner"`        // GitHub repository owner
	Repo       string `yaml:"repo"`         // GitHub repository name
	BaseURL    string `yaml:"api_base_url"` // release API base URL
	InstallDir string `yaml:"install_dir"`  // overrides the per-OS install directory
	BinaryName string `yaml:"binary_name"`  // overrides the installed binary file name
}

// Default returns settings with the stock release source and no path
// overrides.
func Default() Settings {
	return Settings{
		Owner:   DefaultOwner,
		Repo:    DefaultRepo,
		BaseURL: DefaultBaseURL,
	}
}

// Load reads settings from the YAML file at path. An empty path means no
// overrides were requested and the defaults are returned. A path that cannot
// be read or parsed is an error: the user asked for a specific file.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	// Re-apply defaults for fields the file left empty.
	if s.Owner == "" {
		s.Owner = DefaultOwner
	}
	if s.Repo == "" {
		s.Repo = DefaultRepo
	}
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	return s, nil
}
