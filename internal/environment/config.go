// Package environment loads the tool configuration from .env, a TOML config
// file and built-in defaults. Command-line flags are applied on top by the
// caller.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/answers/internal/archive"
	"github.com/programme-lv/answers/internal/runner"
	"github.com/programme-lv/answers/internal/xdg"
)

const (
	AppName        = "answers"
	ConfigFileName = "config.toml"
	// EnvPrefix prefixes every environment variable the CLI reads.
	EnvPrefix = "ANSWERS_"
)

type Config struct {
	ToolsDir string `toml:"tools_dir"`
	// Runtime overrides the bundled JDK below ToolsDir.
	Runtime   string `toml:"runtime"`
	Formatter string `toml:"formatter"`
	Format    bool   `toml:"format"`

	MemberSuffixes []string `toml:"member_suffixes"`
	FormatSuffixes []string `toml:"format_suffixes"`
	// Commands are merged over runner.DefaultCommands. An empty template
	// disables the language.
	Commands map[string]string `toml:"commands"`

	OutDir   string `toml:"out_dir"`
	CacheDir string `toml:"cache_dir"`

	NatsURL     string `toml:"nats_url"`
	NatsSubject string `toml:"nats_subject"`
	SqsURL      string `toml:"sqs_url"`
	AwsRegion   string `toml:"aws_region"`
}

func Default() *Config {
	return &Config{
		ToolsDir:       DefaultToolsDir(),
		Formatter:      "astyle",
		Format:         true,
		MemberSuffixes: slices.Clone(archive.DefaultMemberSuffixes),
		FormatSuffixes: slices.Clone(archive.DefaultFormatSuffixes),
		Commands:       maps.Clone(runner.DefaultCommands),
		OutDir:         "answers-out",
		CacheDir:       xdg.New().AppCacheDir(AppName),
		NatsSubject:    "answers.results",
		AwsRegion:      "eu-central-1",
	}
}

// DefaultToolsDir is the "tools" directory next to the executable.
func DefaultToolsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "tools"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "tools")
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are given. Missing files are not an error; existing variables win.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load returns the defaults overlaid with the config file at path. An empty
// path looks up config.toml in the XDG config directories and is not an error
// when nothing is found.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = xdg.New().FindConfig(AppName, ConfigFileName)
		if path == "" {
			return cfg, nil
		}
	}
	if err := ReadConfigFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfigFile overlays the TOML file at path onto cfg.
func ReadConfigFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	base := cfg.Commands
	cfg.Commands = nil
	if err := toml.Unmarshal(b, cfg); err != nil {
		cfg.Commands = base
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	merged := maps.Clone(base)
	if merged == nil {
		merged = map[string]string{}
	}
	for lang, tmpl := range cfg.Commands {
		lang = strings.ToLower(lang)
		if strings.TrimSpace(tmpl) == "" {
			delete(merged, lang)
			continue
		}
		merged[lang] = tmpl
	}
	cfg.Commands = merged
	return nil
}

// RuntimePath is the runtime substituted for {runtime}.
func (c *Config) RuntimePath() string {
	if c.Runtime != "" {
		return c.Runtime
	}
	return runner.DefaultRuntime(c.ToolsDir)
}

func (c *Config) Validate() error {
	var errs []error
	for lang, tmpl := range c.Commands {
		if err := runner.Validate(tmpl); err != nil {
			errs = append(errs, fmt.Errorf("commands.%s: %w", lang, err))
		}
	}
	for _, s := range c.MemberSuffixes {
		if s == "" {
			errs = append(errs, errors.New("member_suffixes: empty suffix"))
		}
	}
	for _, s := range c.FormatSuffixes {
		if s == "" {
			errs = append(errs, errors.New("format_suffixes: empty suffix"))
		}
	}
	if c.Format && c.Formatter == "" {
		errs = append(errs, errors.New("formatter: required when format is enabled"))
	}
	if c.SqsURL != "" && c.AwsRegion == "" {
		errs = append(errs, errors.New("aws_region: required with sqs_url"))
	}
	return errors.Join(errs...)
}
