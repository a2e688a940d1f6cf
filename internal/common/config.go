package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Reporter ReporterConfig `toml:"reporter"`
	Jira     JiraConfig     `toml:"jira"`
	Storage  StorageConfig  `toml:"storage"`
	Report   ReportConfig   `toml:"report"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ReporterConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
}

// JiraConfig holds transport settings. Connection details and credentials
// live in the session record, not in the config file.
type JiraConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxResults        int     `toml:"max_results"`
	SummaryCount      int     `toml:"summary_count"`
}

type StorageConfig struct {
	DatabasePath  string `toml:"database_path"`
	RetentionDays int    `toml:"retention_days"`
}

type ReportConfig struct {
	OutputDir        string `toml:"output_dir"`
	Days             int    `toml:"days"`
	IncludeSummaries bool   `toml:"include_summaries"`
}

type ServerConfig struct {
	Port int `toml:"port"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	Dir        string `toml:"dir"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
}

func DefaultConfig() *Config {
	execDir, execName := executableLocation()

	return &Config{
		Reporter: ReporterConfig{
			Name:        execName,
			Environment: "development",
		},
		Jira: JiraConfig{
			TimeoutSeconds:    0,
			RequestsPerSecond: 10,
			MaxResults:        100,
			SummaryCount:      10,
		},
		Storage: StorageConfig{
			DatabasePath:  filepath.Join(execDir, "data", execName+".db"),
			RetentionDays: 90,
		},
		Report: ReportConfig{
			OutputDir:        ".",
			Days:             7,
			IncludeSummaries: true,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile == "" {
		execDir, execName := executableLocation()
		possiblePaths := []string{
			filepath.Join(execDir, execName+".toml"),
			filepath.Join(execDir, "config.toml"),
			"config.toml",
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.Storage.DatabasePath = dbPath
	}
	if reportDir := os.Getenv("REPORT_DIR"); reportDir != "" {
		config.Report.OutputDir = reportDir
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}
	if logOutput := os.Getenv("LOG_OUTPUT"); logOutput != "" {
		config.Logging.Output = logOutput
	}
	if logDir := os.Getenv("LOG_DIR"); logDir != "" {
		config.Logging.Dir = logDir
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if portNum, err := strconv.Atoi(port); err == nil {
			config.Server.Port = portNum
		}
	}
}

func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path is required")
	}

	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}

	if c.Report.Days <= 0 {
		return fmt.Errorf("report days must be positive, got %d", c.Report.Days)
	}

	if c.Jira.MaxResults <= 0 {
		c.Jira.MaxResults = 100
	}
	if c.Jira.RequestsPerSecond < 0 {
		return fmt.Errorf("jira requests_per_second cannot be negative")
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validOutputs := []string{"console", "file", "both"}
	validOutput := false
	for _, output := range validOutputs {
		if c.Logging.Output == output {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	return nil
}

func executableLocation() (string, string) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)
	execName := filepath.Base(execPath)
	execName = execName[:len(execName)-len(filepath.Ext(execName))]
	return execDir, execName
}
