package config

// ProjectFileConfig is the raw content of socotra.toml
type ProjectFileConfig struct {
	Deploy   DeploySection            `toml:"deploy"`
	Networks map[string]NetworkConfig `toml:"networks"`
	Accounts map[string]AccountConfig `toml:"accounts"`
}

// DeploySection holds the [deploy] table
type DeploySection struct {
	Store     string `toml:"store"`
	Backend   string `toml:"backend"`
	Artifacts string `toml:"artifacts"`
	Manifest  string `toml:"manifest"`
	Build     bool   `toml:"build"`
}

// NetworkConfig is a [networks.<name>] table
type NetworkConfig struct {
	RPCURL  string `toml:"rpc_url"`
	ChainID uint64 `toml:"chain_id"`
}

// AccountConfig is an [accounts.<name>] table. Either a private key or a
// bare address; an address-only account can be referenced but cannot sign.
type AccountConfig struct {
	PrivateKey string `toml:"private_key"`
	Address    string `toml:"address"`
}
