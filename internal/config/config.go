package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds every environment-sourced default the automation needs:
// team identity, git defaults, and where history files, clones, and logs go.
// It is resolved once at process start and passed into each component at
// construction; components never read the environment themselves.
type Config struct {
	Team    TeamConfig    `yaml:"team"`
	Git     GitConfig     `yaml:"git"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

type TeamConfig struct {
	Name   string `yaml:"name"`
	Leader string `yaml:"leader"`
}

type GitConfig struct {
	BaseBranch        string   `yaml:"base_branch"`
	Remote            string   `yaml:"remote"`
	ProtectedBranches []string `yaml:"protected_branches"`
}

type StorageConfig struct {
	// DataDir holds the JSON history files. Relative paths are resolved
	// against the process working directory.
	DataDir string `yaml:"data_dir"`
	// CloneBaseDir is where clone destinations are created.
	CloneBaseDir string `yaml:"clone_base_dir"`
}

type LoggingConfig struct {
	// Dir receives one log file per run when ToFile is set.
	Dir    string `yaml:"dir"`
	ToFile bool   `yaml:"to_file"`
}

// DefaultConfig returns the built-in defaults, matching the conventions the
// automation scripts historically assumed.
func DefaultConfig() Config {
	return Config{
		Team: TeamConfig{
			Name:   "RIFT_ORGANISERS",
			Leader: "SAIYAM_KUMAR",
		},
		Git: GitConfig{
			BaseBranch:        "main",
			Remote:            "origin",
			ProtectedBranches: []string{"main", "master"},
		},
		Storage: StorageConfig{
			DataDir:      "data",
			CloneBaseDir: "repos",
		},
		Logging: LoggingConfig{
			Dir:    "logs",
			ToFile: false,
		},
	}
}

// Load resolves the effective configuration: built-in defaults, overlaid
// with the YAML file at customPath (or the global XDG path when customPath
// is empty), overlaid with environment overrides. A missing file is fine;
// a present but unparsable file is an error.
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	path := customPath
	if path == "" {
		path = GlobalConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, err
		}
		mergeInto(&cfg, &fileCfg)
	case errors.Is(err, fs.ErrNotExist):
		// defaults apply
	default:
		return Config{}, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

// GlobalConfigPath returns the global config path using XDG base directories,
// e.g. ~/.config/git-agentflow/config.yaml on Linux.
func GlobalConfigPath() string {
	path, err := xdg.ConfigFile(filepath.Join("git-agentflow", "config.yaml"))
	if err != nil {
		return "config.yaml"
	}
	return path
}

// IsProtected reports whether branch is one of the trunk branches that the
// push policy refuses to target.
func (c Config) IsProtected(branch string) bool {
	for _, p := range c.Git.ProtectedBranches {
		if branch == p {
			return true
		}
	}
	return false
}

// BranchHistoryPath is the store for branch lifecycle events.
func (c Config) BranchHistoryPath() string {
	return filepath.Join(c.Storage.DataDir, "branch_history.json")
}

// AutomationHistoryPath is the store for commit and push events.
func (c Config) AutomationHistoryPath() string {
	return filepath.Join(c.Storage.DataDir, "git_automation_history.json")
}

// CloneHistoryPath is the store for clone events.
func (c Config) CloneHistoryPath() string {
	return filepath.Join(c.Storage.DataDir, "clone_history.json")
}

// applyEnv overlays the well-known environment variables. These exist for
// CI pipelines that configure the run entirely through the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TEAM_NAME"); v != "" {
		cfg.Team.Name = v
	}
	if v := os.Getenv("LEADER_NAME"); v != "" {
		cfg.Team.Leader = v
	}
	if v := os.Getenv("DEFAULT_BRANCH"); v != "" {
		cfg.Git.BaseBranch = v
	}
	if v := os.Getenv("DEFAULT_REMOTE"); v != "" {
		cfg.Git.Remote = v
	}
}

// mergeInto merges non-zero values from src into dst.
func mergeInto(dst, src *Config) {
	if dst == nil || src == nil {
		return
	}
	mergeStruct(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem())
}

// mergeStruct copies non-zero fields from src into dst, recursing into
// nested structs. Booleans only override when true, so a config file cannot
// distinguish "false" from "unset"; acceptable for the current keys.
func mergeStruct(dst, src reflect.Value) {
	if dst.Kind() != reflect.Struct || src.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < dst.NumField(); i++ {
		dstField := dst.Field(i)
		srcField := src.Field(i)

		if !dstField.CanSet() {
			continue
		}

		switch dstField.Kind() {
		case reflect.Struct:
			mergeStruct(dstField, srcField)
		default:
			if !srcField.IsZero() {
				dstField.Set(srcField)
			}
		}
	}
}
