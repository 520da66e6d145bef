package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for one deployment attempt.
//
// Credential fields store the names of environment variables holding the
// actual secret values, never the secrets themselves. Resolution happens at
// authentication time so secrets never appear in configuration or logs.
type Config struct {
	// Registry selects the backend: "ecr", "gitlab", "dockerhub" or empty
	// (empty defaults to a DockerHub-style generic registry).
	Registry string

	// Image is the desired name for the pushed image ("name" or "name:tag").
	Image string

	// LocalImage is the local image reference to tag and push.
	LocalImage string

	// Account and Region identify the ECR registry (ECR only).
	Account int
	Region  string

	// User is the registry login user (ECR only, defaults to "AWS").
	User string

	// RegistryEndpoint is the registry host for generic registries. When
	// empty it is derived from the registry kind.
	RegistryEndpoint string

	Credentials CredentialsConfig

	LogLevel string
}

// CredentialsConfig names the environment variables holding registry credentials.
type CredentialsConfig struct {
	// AccessKey and SecretAccessKey name the env vars with the AWS key pair (ECR).
	AccessKey       string
	SecretAccessKey string

	// Username and Password name the env vars with the login pair (generic).
	Username string
	Password string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("rigel")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars only
	}

	// Override with environment variables
	viper.AutomaticEnv()

	config := &Config{
		Registry:         viper.GetString("registry"),
		Image:            viper.GetString("image"),
		LocalImage:       viper.GetString("local_image"),
		Account:          viper.GetInt("account"),
		Region:           viper.GetString("region"),
		User:             viper.GetString("user"),
		RegistryEndpoint: viper.GetString("registry_endpoint"),
		Credentials: CredentialsConfig{
			AccessKey:       viper.GetString("credentials.access_key"),
			SecretAccessKey: viper.GetString("credentials.secret_access_key"),
			Username:        viper.GetString("credentials.username"),
			Password:        viper.GetString("credentials.password"),
		},
		LogLevel: viper.GetString("log_level"),
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("registry", "")
	viper.SetDefault("image", "")
	viper.SetDefault("local_image", "rigel:temp")
	viper.SetDefault("user", "AWS")
	viper.SetDefault("registry_endpoint", "")
	viper.SetDefault("log_level", "info")
}

// ValidateECR checks the fields an ECR deployment requires.
func (c *Config) ValidateECR() error {
	if c.Image == "" {
		return ErrMissingRequiredField{Field: "image"}
	}
	if c.Account == 0 {
		return ErrMissingRequiredField{Field: "account"}
	}
	if c.Region == "" {
		return ErrMissingRequiredField{Field: "region"}
	}
	if c.Credentials.AccessKey == "" {
		return ErrMissingRequiredField{Field: "credentials[access_key]"}
	}
	if c.Credentials.SecretAccessKey == "" {
		return ErrMissingRequiredField{Field: "credentials[secret_access_key]"}
	}
	return nil
}

// ValidateGeneric checks the fields a generic registry deployment requires.
// The registry endpoint may still be derived from the registry kind, so it
// is checked by the backend rather than here.
func (c *Config) ValidateGeneric() error {
	if c.Image == "" {
		return ErrMissingRequiredField{Field: "image"}
	}
	if c.Credentials.Username == "" {
		return ErrMissingRequiredField{Field: "credentials[username]"}
	}
	if c.Credentials.Password == "" {
		return ErrMissingRequiredField{Field: "credentials[password]"}
	}
	return nil
}

// ErrMissingRequiredField is returned when a required configuration field is absent
type ErrMissingRequiredField struct {
	Field string
}

func (e ErrMissingRequiredField) Error() string {
	return "missing required configuration field: " + e.Field
}
