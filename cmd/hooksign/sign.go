package main

import (
	"fmt"
	"io"
	"os"

	"hooksign/internal/profile"
	"hooksign/internal/security"
	"hooksign/internal/signature"
	"hooksign/pkg/fileutil"

	"github.com/spf13/cobra"
)

var (
	signPayload string
	signFile    string
	signSecret  string
	signProfile string
	signConfig  string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a payload",
	Long: `Compute the HMAC-SHA256 signature of a payload and print it as
"sha256=<hex>" on a single line.

The payload comes from --payload, --file, or stdin. The secret comes from
--secret, the HOOKSIGN_SECRET environment variable, or a named profile in
the configuration file. String payloads are hashed as their UTF-8 bytes;
the verifying party must decode them the same way or the digests will not
match.`,
	Example: `  echo -n '{"tmp":"bob"}' | hooksign sign --secret tmpsecret
  hooksign sign --file payload.json --profile github
  hooksign sign --payload '{"tmp":"bob"}' --secret tmpsecret`,
	RunE: runSign,
}

func init() {
	signCmd.Flags().StringVarP(&signPayload, "payload", "d", "", "Payload string to sign")
	signCmd.Flags().StringVarP(&signFile, "file", "f", "", "Read payload from file")
	signCmd.Flags().StringVarP(&signSecret, "secret", "s", "", "Signing secret (overrides HOOKSIGN_SECRET and --profile)")
	signCmd.Flags().StringVar(&signProfile, "profile", "", "Named profile to take the secret from")
	signCmd.Flags().StringVarP(&signConfig, "config", "c", getEnvOrDefault("HOOKSIGN_CONFIG_FILE", ""), "Path to profiles.yaml configuration file")
}

func runSign(cmd *cobra.Command, args []string) error {
	payload, err := readSignPayload(cmd.InOrStdin())
	if err != nil {
		return err
	}

	secret, err := resolveSecret()
	if err != nil {
		return err
	}

	if err := security.CheckSecretStrength(secret); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signature.Sign(payload, secret))
	return nil
}

// readSignPayload resolves the payload source: --payload, then --file,
// then stdin
func readSignPayload(stdin io.Reader) ([]byte, error) {
	if signPayload != "" && signFile != "" {
		return nil, fmt.Errorf("--payload and --file are mutually exclusive")
	}

	if signPayload != "" {
		return []byte(signPayload), nil
	}

	if signFile != "" {
		data, err := os.ReadFile(signFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
	}
	return data, nil
}

// resolveSecret resolves the signing secret: --secret, then
// HOOKSIGN_SECRET, then the configured profile
func resolveSecret() (string, error) {
	if signSecret != "" {
		return signSecret, nil
	}

	if env := os.Getenv("HOOKSIGN_SECRET"); env != "" {
		return env, nil
	}

	if signProfile == "" {
		return "", fmt.Errorf("no secret: use --secret, HOOKSIGN_SECRET, or --profile")
	}

	configFile := signConfig
	if configFile == "" {
		var err error
		configFile, err = fileutil.FindConfig("profiles.yaml")
		if err != nil {
			return "", fmt.Errorf("no configuration file for profile '%s': %w", signProfile, err)
		}
	}

	_, profiles, err := profile.LoadConfig(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	registry := profile.NewRegistry(profiles)
	prof, err := registry.Get(signProfile)
	if err != nil {
		return "", err
	}

	return prof.Secret, nil
}
