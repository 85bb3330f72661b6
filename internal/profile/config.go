package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hooksign/internal/security"
)

// LoadConfig loads and validates the configuration from a YAML file
func LoadConfig(configPath string) (*Config, map[string]*Profile, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Initialize Profiles map if it's nil (happens with empty YAML files)
	if config.Profiles == nil {
		config.Profiles = make(map[string]ProfileConfig)
	}

	// Validate and create Profile instances
	profiles := make(map[string]*Profile)
	for name, profileConfig := range config.Profiles {
		errors := ValidateProfileConfig(name, profileConfig)
		if len(errors) > 0 {
			return nil, nil, fmt.Errorf("invalid configuration for profile '%s':\n%s",
				name, strings.Join(errors, "\n"))
		}

		profiles[name] = &Profile{
			Name:       name,
			Secret:     profileConfig.Secret,
			WeakSecret: security.CheckSecretStrength(profileConfig.Secret) != nil,
		}
	}

	return &config, profiles, nil
}

// ValidateProfileConfig validates a single profile configuration
func ValidateProfileConfig(name string, config ProfileConfig) []string {
	var errors []string

	if err := security.ValidateProfileName(name); err != nil {
		errors = append(errors, fmt.Sprintf("  - Profile '%s': %v", name, err))
	}

	if config.Secret == "" {
		errors = append(errors, fmt.Sprintf("  - Profile '%s': missing required 'secret' field", name))
	}

	return errors
}
