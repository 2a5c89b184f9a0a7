package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/socotra-protocol/contracts/internal/domain/config"
)

// loadProjectConfig loads .env files and parses socotra.toml if it exists.
// A missing socotra.toml yields an empty configuration.
func loadProjectConfig(projectRoot string) (*config.ProjectFileConfig, error) {
	// Load .env files first for variable expansion
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	cfg := &config.ProjectFileConfig{}

	projectPath := filepath.Join(projectRoot, ProjectFile)
	if _, err := os.Stat(projectPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(projectPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
	}

	// Expand environment variables in account and network values
	for name, account := range cfg.Accounts {
		account.PrivateKey = os.ExpandEnv(account.PrivateKey)
		account.Address = os.ExpandEnv(account.Address)
		cfg.Accounts[name] = account
	}
	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		cfg.Networks[name] = network
	}

	return cfg, nil
}

// resolveNetwork picks the named network from the project configuration.
// "localhost" is always available and points at a local node.
func resolveNetwork(project *config.ProjectFileConfig, name string) (*config.Network, error) {
	if name == "" {
		name = DefaultNetwork
	}

	if network, ok := project.Networks[name]; ok {
		if network.RPCURL == "" {
			return nil, fmt.Errorf("network %s has no rpc_url", name)
		}
		return &config.Network{
			Name:    name,
			ChainID: network.ChainID,
			RPCURL:  network.RPCURL,
		}, nil
	}

	if name == DefaultNetwork {
		return &config.Network{
			Name:    name,
			ChainID: 31337,
			RPCURL:  "http://127.0.0.1:8545",
		}, nil
	}

	return nil, fmt.Errorf("network '%s' not found in %s [networks]", name, ProjectFile)
}
