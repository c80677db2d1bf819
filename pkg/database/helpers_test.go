package database

import "github.com/Alijeyrad/hospital_backend/config"

func configWithHost(host string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     host,
		User:     "app",
		Password: "secret",
		DBName:   "hospital",
	}
}
