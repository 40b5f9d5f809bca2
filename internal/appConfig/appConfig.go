package appConfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultOrganization = "electronicarts"
	ConfigFileName      = "orgclone.yaml"
	MaxWorkers          = 16
	DefaultRetryLimit   = 2
)

// AppConfig is the fully resolved run configuration. Built once before the
// pool starts, read-only afterwards. Mirror implies not Shallow.
type AppConfig struct {
	Dest            string
	Organization    string
	APIBaseURL      string
	Token           string
	UseSSH          bool
	IncludeArchived bool
	Workers         int
	Shallow         bool
	Mirror          bool
	RetryLimit      int
	Verbose         bool
}

// Flags carries the raw command line values before resolution. WorkersSet
// records whether --workers was given explicitly, since its default is not
// distinguishable from a chosen value.
type Flags struct {
	Dest            string
	Org             string
	Token           string
	UseSSH          bool
	IncludeArchived bool
	Workers         int
	WorkersSet      bool
	Full            bool
	Mirror          bool
	Verbose         bool
}

// fileConfig is the optional orgclone.yaml. Flags win over file values.
type fileConfig struct {
	Organization string `yaml:"organization"`
	APIBaseURL   string `yaml:"apiBaseUrl"`
	Dest         string `yaml:"dest"`
	Workers      int    `yaml:"workers"`
	RetryLimit   *int   `yaml:"retryLimit"`
}

// DefaultWorkers is the --workers default: up to 8, bounded by host CPUs.
func DefaultWorkers() int {
	return min(8, runtime.NumCPU())
}

// Resolve merges flags, the optional config file and the environment into
// the final configuration.
func Resolve(flags Flags) (*AppConfig, error) {
	file, err := loadConfigFile()
	if err != nil {
		return nil, err
	}
	return resolve(flags, file)
}

func resolve(flags Flags, file *fileConfig) (*AppConfig, error) {
	workers := flags.Workers
	if !flags.WorkersSet && file.Workers != 0 {
		workers = file.Workers
	}

	cfg := &AppConfig{
		Organization:    firstNonEmpty(flags.Org, file.Organization, DefaultOrganization),
		APIBaseURL:      file.APIBaseURL,
		Token:           resolveToken(flags.Token),
		UseSSH:          flags.UseSSH,
		IncludeArchived: flags.IncludeArchived,
		Workers:         clampWorkers(workers),
		Shallow:         !flags.Full && !flags.Mirror,
		Mirror:          flags.Mirror,
		RetryLimit:      DefaultRetryLimit,
		Verbose:         flags.Verbose,
	}
	if file.RetryLimit != nil && *file.RetryLimit >= 0 {
		cfg.RetryLimit = *file.RetryLimit
	}

	dest := firstNonEmpty(flags.Dest, file.Dest, cfg.Organization)
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("could not resolve destination directory %s: %w", dest, err)
	}
	cfg.Dest = absDest

	return cfg, nil
}

// resolveToken falls back from the flag to GITHUB_TOKEN, then GH_TOKEN.
// A .env file in the working directory is honored when present.
func resolveToken(fromFlag string) string {
	_ = godotenv.Load()
	if fromFlag != "" {
		return fromFlag
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}

func clampWorkers(workers int) int {
	if workers < 1 {
		return 1
	}
	if workers > MaxWorkers {
		return MaxWorkers
	}
	return workers
}

// loadConfigFile looks for orgclone.yaml in the current directory, then the
// home directory. A missing file is not an error.
func loadConfigFile() (*fileConfig, error) {
	configFilePath := ConfigFileName
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return &fileConfig{}, nil
		}
		configFilePath = filepath.Join(homeDir, ConfigFileName)
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
	}
	return parseConfigFile(configFilePath)
}

func parseConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", path, err)
	}
	return &file, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
