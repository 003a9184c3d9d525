// Package config loads clb.json, validates it against an embedded CUE schema
// and applies CLB_* environment overrides.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/joho/godotenv"

	"github.com/pborges/clb/internal/vhdl"
)

// FileName is the configuration file written by "clb init".
const FileName = "clb.json"

type Config struct {
	// Entity overrides the entity name derived from the input file.
	Entity       string `json:"entity,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Indent       string `json:"indent,omitempty"`
	// PortOrder is "first-seen" or "sorted".
	PortOrder    string `json:"portOrder,omitempty"`

	// KnownSignals, when set, restricts right-hand sides to these signals and
	// lets "AB" mean A AND B.
	KnownSignals []string `json:"knownSignals,omitempty"`
	Header       []string `json:"header,omitempty"`

	Lint LintConfig `json:"lint,omitempty"`
}

type LintConfig struct {
	// Rules maps rule names to "on" or "off"
	Rules map[string]string `json:"rules,omitempty"`

	// PolicyDirs are searched for extra *.rego policies
	PolicyDirs []string `json:"policyDirs,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Architecture: "behavioral",
		Indent:       "    ",
		PortOrder:    string(vhdl.PortOrderFirstSeen),
		Header:       []string{"Generated by clb. Do not edit."},
		Lint: LintConfig{
			Rules: map[string]string{},
		},
	}
}

// Load finds and loads the configuration file. .env files in the working
// directory and rootPath are loaded into the environment first.
// Search order:
//  1. ./clb.json
//  2. ./.clb.json
//  3. <rootPath>/clb.json and <rootPath>/.clb.json (if different from cwd)
//  4. ~/.config/clb/config.json
//
// Returns DefaultConfig with environment overrides if no file is found.
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()
	envFiles := []string{filepath.Join(cwd, ".env")}
	searchPaths := []string{
		filepath.Join(cwd, FileName),
		filepath.Join(cwd, "."+FileName),
	}
	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			envFiles = append(envFiles, filepath.Join(rootPath, ".env"))
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, FileName),
				filepath.Join(rootPath, "."+FileName),
			)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "clb", "config.json"))
	}
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	cfg := DefaultConfig()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads the given .env files, skipping those that don't exist.
// Variables already set in the environment win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := validateJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	c.applyEnv()
	c.applyDefaults()
	return c.Validate()
}

// applyEnv overrides fields from CLB_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("CLB_ENTITY"); v != "" {
		c.Entity = v
	}
	if v := os.Getenv("CLB_ARCHITECTURE"); v != "" {
		c.Architecture = v
	}
	if v := os.Getenv("CLB_INDENT"); v != "" {
		c.Indent = v
	}
	if v := os.Getenv("CLB_PORT_ORDER"); v != "" {
		c.PortOrder = v
	}
	if v := os.Getenv("CLB_KNOWN_SIGNALS"); v != "" {
		c.KnownSignals = SplitList(v)
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Architecture == "" {
		c.Architecture = "behavioral"
	}
	if c.Indent == "" {
		c.Indent = "    "
	}
	if c.PortOrder == "" {
		c.PortOrder = string(vhdl.PortOrderFirstSeen)
	}
	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks c against the schema.
func (c *Config) Validate() error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return validateJSON(data)
}

// VHDL returns the code generator settings.
func (c *Config) VHDL() vhdl.Config {
	return vhdl.Config{
		Header:       c.Header,
		Architecture: c.Architecture,
		Indent:       c.Indent,
		PortOrder:    vhdl.PortOrder(c.PortOrder),
	}
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	return c.Lint.Rules[rule] != "off"
}

// DisabledRules lists the rules set to "off", sorted.
func (c *Config) DisabledRules() []string {
	var out []string
	for rule := range c.Lint.Rules {
		if !c.IsRuleEnabled(rule) {
			out = append(out, rule)
		}
	}
	sort.Strings(out)
	return out
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

//go:embed schema.cue
var schemaSource []byte

var schema = cuecontext.New().CompileBytes(schemaSource)

func validateJSON(data []byte) error {
	if schema.Err() != nil {
		return fmt.Errorf("compiling schema: %w", schema.Err())
	}
	value := schema.Context().CompileBytes(data)
	if value.Err() != nil {
		return fmt.Errorf("compiling config as CUE: %w", value.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if def.Err() != nil {
		return fmt.Errorf("looking up #Config definition: %w", def.Err())
	}
	if err := def.Unify(value).Validate(); err != nil {
		var msgs []string
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}
