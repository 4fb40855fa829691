// config/config.go
package config

import (
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Neo4j   Neo4jConfig   `mapstructure:"neo4j"`
	API     APIConfig     `mapstructure:"api"`
	Network NetworkConfig `mapstructure:"network"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// Neo4jConfig holds the configuration for the graph store connection
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// APIConfig holds the configuration for the API server
type APIConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// NetworkConfig selects the deployment target. The era constant table and
// the reward-address network id are resolved from this once at startup and
// injected into the components that need them.
type NetworkConfig struct {
	Name string `mapstructure:"name"` // "mainnet" or "testnet"
}

// CacheConfig holds the configuration for in-process caching
type CacheConfig struct {
	BestBlockTTLSeconds int `mapstructure:"best_block_ttl_seconds"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
