package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort           string  `mapstructure:"SERVER_PORT"`
	NetworkPath          string  `mapstructure:"NETWORK_PATH"`
	MatchThresholdM      float64 `mapstructure:"MATCH_THRESHOLD_M"`
	PostgresURL          string  `mapstructure:"POSTGRES_URL"`
	RedisAddr            string  `mapstructure:"REDIS_ADDR"`
	RedisPassword        string  `mapstructure:"REDIS_PASSWORD"`
	JWTSecret            string  `mapstructure:"JWT_SECRET"`
	OperatorUser         string  `mapstructure:"OPERATOR_USER"`
	OperatorPasswordHash string  `mapstructure:"OPERATOR_PASSWORD_HASH"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("NETWORK_PATH", "network.geojson")
	viper.SetDefault("MATCH_THRESHOLD_M", 10.0)
	viper.SetDefault("POSTGRES_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("OPERATOR_USER", "operator")
	// no default hash: login stays disabled until OPERATOR_PASSWORD_HASH is set
	viper.SetDefault("OPERATOR_PASSWORD_HASH", "")

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
