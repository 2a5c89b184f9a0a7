package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/socotra-protocol/contracts/internal/domain/config"
)

const (
	// ProjectFile is the project configuration file name
	ProjectFile = "socotra.toml"
	// DataDirName is the directory holding persisted state, one subdirectory per network
	DataDirName = ".socotra"
	// DefaultNetwork is used when no network is given
	DefaultNetwork = "localhost"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := loadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	networkName := v.GetString("network")
	network, err := resolveNetwork(project, networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName, network.Name),
		Network:        network,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry_run"),
		Store:          firstNonEmpty(v.GetString("store"), project.Deploy.Store, config.StoreJSON),
		Backend:        firstNonEmpty(v.GetString("backend"), project.Deploy.Backend, config.BackendRPC),
		Build:          v.GetBool("build") || project.Deploy.Build,
		ArtifactsDir:   filepath.Join(projectRoot, firstNonEmpty(project.Deploy.Artifacts, "out")),
		Accounts:       project.Accounts,
	}

	switch cfg.Store {
	case config.StoreJSON, config.StoreSQLite:
	default:
		return nil, fmt.Errorf("unknown store %q (valid: json, sqlite)", cfg.Store)
	}
	switch cfg.Backend {
	case config.BackendRPC, config.BackendSimulated:
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: rpc, simulated)", cfg.Backend)
	}

	manifestPath := filepath.Join(projectRoot, firstNonEmpty(project.Deploy.Manifest, ManifestFile))
	if cfg.Manifest, err = LoadManifest(manifestPath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find socotra.toml or foundry.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{ProjectFile, "foundry.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a project (%s or foundry.toml not found)", ProjectFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("SOCOTRA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", DefaultNetwork)
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
