// Package config loads the three database credentials (host, user, password)
// plus optional port overrides from a .env file, the process environment and an
// optional YAML file. Environment values win over file values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultMySQLPort = 3306

type DBConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

type AppConfig struct {
	Database DBConfig     `yaml:"database" json:"database"`
	Server   ServerConfig `yaml:"server" json:"server"`
}

// LoadFile loads YAML config from path.
func LoadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv merges MYSQL_* environment variables into cfg, loading envPath first
// when it names an existing .env file. Unset variables leave cfg untouched.
func LoadEnv(cfg AppConfig, envPath string) AppConfig {
	if envPath != "" {
		// Overload rather than Load so a .env edit wins over stale shell exports.
		_ = godotenv.Overload(envPath)
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		cfg.Database.Username = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	return cfg
}

// BuildDSN produces a go-sql-driver/mysql DSN for db. No database name is set;
// every metadata query qualifies the schema explicitly.
func BuildDSN(db DBConfig) (string, error) {
	if db.Host == "" {
		return "", fmt.Errorf("database host is required (MYSQL_HOST or config file)")
	}
	if db.Username == "" {
		return "", fmt.Errorf("database user is required (MYSQL_USER or config file)")
	}
	port := db.Port
	if port == 0 {
		port = defaultMySQLPort
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/?parseTime=true",
		db.Username, db.Password, db.Host, port), nil
}
