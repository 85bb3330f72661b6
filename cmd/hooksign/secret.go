package main

import (
	"fmt"
	"os"

	"hooksign/internal/githook"
	"hooksign/internal/security"

	"github.com/spf13/cobra"
)

var (
	secretPush   string
	secretHookID int64
	secretToken  string
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a signing secret",
	Long: `Generate a cryptographically secure signing secret and print it to
stdout.

With --push, the new secret is also set on a GitHub repository webhook so
the repository starts signing with it. The GitHub token comes from --token
or the GITHUB_TOKEN environment variable. When the repository has more
than one webhook, pick one with --hook-id.`,
	Example: `  hooksign secret
  hooksign secret --push huggingface/lor-e
  hooksign secret --push huggingface/lor-e --hook-id 42`,
	RunE: runSecret,
}

func init() {
	secretCmd.Flags().StringVar(&secretPush, "push", "", "Set the new secret on a GitHub repository webhook (owner/repo)")
	secretCmd.Flags().Int64Var(&secretHookID, "hook-id", 0, "Webhook ID to update (default: the repository's only webhook)")
	secretCmd.Flags().StringVar(&secretToken, "token", getEnvOrDefault("GITHUB_TOKEN", ""), "GitHub API token")
}

func runSecret(cmd *cobra.Command, args []string) error {
	secret, err := security.GenerateSecret()
	if err != nil {
		return err
	}

	if secretPush != "" {
		ctx := cmd.Context()

		client, err := githook.NewClient(ctx, secretToken)
		if err != nil {
			return err
		}

		hookID, err := githook.ResolveHookID(ctx, client, secretPush, secretHookID)
		if err != nil {
			return err
		}

		if err := githook.UpdateHookSecret(ctx, client, secretPush, hookID, secret); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Updated webhook %d on %s\n", hookID, secretPush)
	}

	fmt.Fprintln(cmd.OutOrStdout(), secret)
	return nil
}
