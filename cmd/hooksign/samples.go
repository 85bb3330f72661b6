package main

import (
	"fmt"

	"hooksign/internal/payload"
	"hooksign/internal/signature"

	"github.com/spf13/cobra"
)

var samplesSecret string

var samplesCmd = &cobra.Command{
	Use:   "samples [name...]",
	Short: "Sign the bundled sample payloads",
	Long: `Sign the bundled sample webhook payloads and print their signatures.

With no arguments, every sample is signed and printed as "<name>: <signature>".
With a single sample name, only the bare signature line is printed, which
makes the output easy to diff against an independently computed value.

Available samples: ` + fmt.Sprint(payload.Names()),
	Example: `  hooksign samples
  hooksign samples minimal
  hooksign samples comment-created --secret tmpsecret`,
	RunE: runSamples,
}

func init() {
	samplesCmd.Flags().StringVarP(&samplesSecret, "secret", "s", "tmpsecret", "Signing secret")
}

func runSamples(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = payload.Names()
	}

	for _, name := range names {
		body, err := payload.Get(name)
		if err != nil {
			return err
		}

		sig := signature.Sign(body, samplesSecret)
		if len(args) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), sig)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, sig)
		}
	}

	return nil
}
