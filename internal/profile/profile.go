package profile

// Profile represents a validated signing profile
type Profile struct {
	Name   string
	Secret string
	// WeakSecret is set when the secret failed the strength check at load
	// time. Signing still works; callers use it to warn.
	WeakSecret bool
}

// ProfileConfig represents the YAML configuration for a profile
type ProfileConfig struct {
	Secret string `yaml:"secret"`
}

// Config represents the root configuration structure
type Config struct {
	Profiles map[string]ProfileConfig `yaml:"profiles"`
}
