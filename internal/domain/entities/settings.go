package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntervalTicks = 200
	DefaultTickRate      = 50 * time.Millisecond
	DefaultChunkSize     = 1024
	DefaultDestination   = "updates"
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultRetryMax      = 2
)

// Settings is the top-level configuration for forgeupdates.
type Settings struct {
	GameVersion string              `yaml:"game_version" toml:"game_version"`
	DevMode     bool                `yaml:"dev_mode"     toml:"dev_mode"`
	Poll        PollSettings        `yaml:"poll"         toml:"poll"`
	Download    DownloadSettings    `yaml:"download"     toml:"download"`
	HTTP        HTTPSettings        `yaml:"http"         toml:"http"`
	Components  []ComponentSettings `yaml:"components"   toml:"components"`
}

// PollSettings configures the polling scheduler.
type PollSettings struct {
	IntervalTicks int    `yaml:"interval_ticks" toml:"interval_ticks"`
	TickRate      string `yaml:"tick_rate"      toml:"tick_rate"`
	Concurrency   int    `yaml:"concurrency"    toml:"concurrency"`
}

// DownloadSettings configures the downloader.
type DownloadSettings struct {
	Destination string `yaml:"destination" toml:"destination"`
	ChunkSize   int    `yaml:"chunk_size"  toml:"chunk_size"`
}

// HTTPSettings configures the shared HTTP client.
type HTTPSettings struct {
	Timeout  string `yaml:"timeout"   toml:"timeout"`
	RetryMax *int   `yaml:"retry_max" toml:"retry_max"`
}

// ComponentSettings describes one updatable component.
type ComponentSettings struct {
	ID             string `yaml:"id"              toml:"id"`
	Name           string `yaml:"name"            toml:"name"`
	ManifestURL    string `yaml:"manifest_url"    toml:"manifest_url"`
	CurrentVersion string `yaml:"current_version" toml:"current_version"`
	Stable         *bool  `yaml:"stable"          toml:"stable"`
	Scheme         string `yaml:"scheme"          toml:"scheme"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file (YAML or TOML by
// extension), expands environment variables, applies defaults and validates.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if unmarshalErr := toml.Unmarshal(data, &settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	default:
		if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	for i := range settings.Components {
		settings.Components[i].ManifestURL = expandEnv(settings.Components[i].ManifestURL)
	}
	settings.Download.Destination = expandEnv(settings.Download.Destination)

	settings.applyDefaults()
	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".forgeupdates.yaml",
		".forgeupdates.yml",
		".forgeupdates.toml",
		"forgeupdates.yaml",
		"forgeupdates.yml",
		"forgeupdates.toml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// TickDuration returns the parsed poll tick rate.
func (s *Settings) TickDuration() time.Duration {
	d, err := time.ParseDuration(s.Poll.TickRate)
	if err != nil {
		return DefaultTickRate
	}
	return d
}

// HTTPTimeout returns the parsed HTTP client timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(s.HTTP.Timeout)
	if err != nil {
		return DefaultHTTPTimeout
	}
	return d
}

// Retries returns the number of HTTP retries, DefaultRetryMax when unset.
func (s *Settings) Retries() int {
	if s.HTTP.RetryMax == nil {
		return DefaultRetryMax
	}
	return *s.HTTP.RetryMax
}

// ToComponents converts the component entries into domain components.
func (s *Settings) ToComponents() []Component {
	result := make([]Component, 0, len(s.Components))
	for _, c := range s.Components {
		result = append(result, Component{
			ID:             c.ID,
			DisplayName:    c.Name,
			ManifestURL:    c.ManifestURL,
			CurrentVersion: c.CurrentVersion,
			Stable:         c.Stable == nil || *c.Stable,
			Scheme:         c.Scheme,
		})
	}
	return result
}

func (s *Settings) applyDefaults() {
	if s.Poll.IntervalTicks == 0 {
		s.Poll.IntervalTicks = DefaultIntervalTicks
	}
	if s.Poll.TickRate == "" {
		s.Poll.TickRate = DefaultTickRate.String()
	}
	if s.Poll.Concurrency == 0 {
		s.Poll.Concurrency = 1
	}
	if s.Download.Destination == "" {
		s.Download.Destination = DefaultDestination
	}
	if s.Download.ChunkSize == 0 {
		s.Download.ChunkSize = DefaultChunkSize
	}
	if s.HTTP.Timeout == "" {
		s.HTTP.Timeout = DefaultHTTPTimeout.String()
	}
	for i := range s.Components {
		if s.Components[i].Scheme == "" {
			s.Components[i].Scheme = SchemeSemver
		}
	}
}

// validate checks for required configuration values.
func (s *Settings) validate() error {
	if strings.TrimSpace(s.GameVersion) == "" {
		return errors.New("game_version is required")
	}
	if s.Poll.IntervalTicks < 0 {
		return fmt.Errorf("poll.interval_ticks must be positive, got %d", s.Poll.IntervalTicks)
	}
	if _, err := time.ParseDuration(s.Poll.TickRate); err != nil {
		return fmt.Errorf("poll.tick_rate: %w", err)
	}
	if s.Poll.Concurrency < 0 {
		return fmt.Errorf("poll.concurrency must be positive, got %d", s.Poll.Concurrency)
	}
	if s.Download.ChunkSize < 0 {
		return fmt.Errorf("download.chunk_size must be positive, got %d", s.Download.ChunkSize)
	}
	if _, err := time.ParseDuration(s.HTTP.Timeout); err != nil {
		return fmt.Errorf("http.timeout: %w", err)
	}
	if s.HTTP.RetryMax != nil && *s.HTTP.RetryMax < 0 {
		return fmt.Errorf("http.retry_max must not be negative, got %d", *s.HTTP.RetryMax)
	}
	if len(s.Components) == 0 {
		return errors.New("at least one component must be configured")
	}

	seen := make(map[string]bool, len(s.Components))
	for i, c := range s.Components {
		if c.ID == "" {
			return fmt.Errorf("components[%d].id is required", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("components[%d].id %q is duplicated", i, c.ID)
		}
		seen[c.ID] = true

		if c.CurrentVersion == "" {
			return fmt.Errorf("components[%d].current_version is required", i)
		}
		if !slices.Contains(KnownSchemes(), c.Scheme) {
			return fmt.Errorf(
				"components[%d].scheme %q is unknown (expected one of %s)",
				i, c.Scheme, strings.Join(KnownSchemes(), ", "),
			)
		}
		u, err := url.Parse(c.ManifestURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("components[%d].manifest_url %q must be an absolute URL", i, c.ManifestURL)
		}
	}

	return nil
}

// expandEnv expands ${ENV_VAR} references, warning about unset variables.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}
