package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the ordering platform.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RabbitMQConfig holds RabbitMQ connection configuration.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file. A .env file, if present, and
// process environment variables override the credentials from the file.
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		switch currentSection {
		case "server":
			if key == "port" {
				config.Server.Port, _ = strconv.Atoi(value)
			}
		case "database":
			switch key {
			case "host":
				config.Database.Host = value
			case "port":
				config.Database.Port, _ = strconv.Atoi(value)
			case "user":
				config.Database.User = value
			case "password":
				config.Database.Password = value
			case "database":
				config.Database.Database = value
			}
		case "rabbitmq":
			switch key {
			case "host":
				config.RabbitMQ.Host = value
			case "port":
				config.RabbitMQ.Port, _ = strconv.Atoi(value)
			case "user":
				config.RabbitMQ.User = value
			case "password":
				config.RabbitMQ.Password = value
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnvOverrides()

	return config, nil
}

// applyEnvOverrides lets deployment environments replace file credentials
// without editing config.yaml.
func (c *Config) applyEnvOverrides() {
	_ = godotenv.Load()

	if v := os.Getenv("NEONFOOD_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("NEONFOOD_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("NEONFOOD_RABBITMQ_HOST"); v != "" {
		c.RabbitMQ.Host = v
	}
	if v := os.Getenv("NEONFOOD_RABBITMQ_PASSWORD"); v != "" {
		c.RabbitMQ.Password = v
	}
}

// DatabaseURL builds a PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL builds an AMQP connection string.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
