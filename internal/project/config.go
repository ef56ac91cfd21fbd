package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"keel/internal/diag"
	"keel/internal/source"
)

// ErrInvalidConfig marks every validation failure of a config file.
var ErrInvalidConfig = errors.New("invalid keel.toml")

var (
	outputFormats = []string{"pretty", "short", "json", "tree", "none"}
	pathModes     = []string{"auto", "absolute", "relative", "basename"}
)

type LowerConfig struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

type DiagnosticsConfig struct {
	Max          int      `toml:"max"`
	DenyWarnings bool     `toml:"deny_warnings"`
	Allow        []string `toml:"allow"`
	Format       string   `toml:"format"`
	PathMode     string   `toml:"path_mode"`
}

// Config is the content of keel.toml. Path is empty for the defaults.
type Config struct {
	Path        string            `toml:"-"`
	Lower       LowerConfig       `toml:"lower"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{
			Max:      100,
			Format:   "pretty",
			PathMode: "auto",
		},
	}
}

// Load decodes path over the defaults and validates the result. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the keel.toml governing start, or the defaults when none
// exists.
func Discover(start string) (Config, error) {
	path, ok, err := FindConfig(start)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	if c.Lower.Jobs < 0 {
		return fmt.Errorf("%w: lower.jobs must not be negative", ErrInvalidConfig)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: diagnostics.max must not be negative", ErrInvalidConfig)
	}
	if !slices.Contains(outputFormats, c.Diagnostics.Format) {
		return fmt.Errorf("%w: diagnostics.format %q (expected one of %s)",
			ErrInvalidConfig, c.Diagnostics.Format, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(pathModes, c.Diagnostics.PathMode) {
		return fmt.Errorf("%w: diagnostics.path_mode %q (expected one of %s)",
			ErrInvalidConfig, c.Diagnostics.PathMode, strings.Join(pathModes, ", "))
	}
	if _, err := c.Diagnostics.AllowSet(); err != nil {
		return err
	}
	return nil
}

// AllowSet parses the allow list into codes.
func (d DiagnosticsConfig) AllowSet() (map[diag.Code]bool, error) {
	set := make(map[diag.Code]bool, len(d.Allow))
	for _, id := range d.Allow {
		code, ok := diag.ParseCode(strings.TrimSpace(id))
		if !ok {
			return nil, fmt.Errorf("%w: diagnostics.allow contains unknown code %q", ErrInvalidConfig, id)
		}
		set[code] = true
	}
	return set, nil
}

// ConfigDiagnostic reports err against the config file for callers that
// render it with the other diagnostics.
func ConfigDiagnostic(path string, err error) diag.Diagnostic {
	return diag.NewError(diag.ProjInvalidConfig, source.Span{Path: path}, err.Error())
}
