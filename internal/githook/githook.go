// Package githook pushes rotated signing secrets to GitHub repository
// webhooks, so the secret hooksign signs with stays in step with what the
// repository is configured to send.
package githook

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// NewClient creates an authenticated GitHub client
func NewClient(ctx context.Context, token string) (*github.Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return github.NewClient(tc), nil
}

// SplitOwnerRepo parses an "owner/repo" reference
func SplitOwnerRepo(ownerRepo string) (string, string, error) {
	parts := strings.Split(ownerRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid owner/repo format: %s", ownerRepo)
	}
	return parts[0], parts[1], nil
}

// ResolveHookID returns hookID unchanged when non-zero; otherwise it lists
// the repository's webhooks and resolves only if exactly one exists.
func ResolveHookID(ctx context.Context, client *github.Client, ownerRepo string, hookID int64) (int64, error) {
	if hookID != 0 {
		return hookID, nil
	}

	owner, repo, err := SplitOwnerRepo(ownerRepo)
	if err != nil {
		return 0, err
	}

	hooks, _, err := client.Repositories.ListHooks(ctx, owner, repo, nil)
	if err != nil {
		return 0, fmt.Errorf("listing webhooks: %w", err)
	}

	switch len(hooks) {
	case 0:
		return 0, fmt.Errorf("repository %s has no webhooks", ownerRepo)
	case 1:
		return hooks[0].GetID(), nil
	default:
		return 0, fmt.Errorf("repository %s has %d webhooks, specify one with --hook-id", ownerRepo, len(hooks))
	}
}

// UpdateHookSecret sets the signing secret on a repository webhook
func UpdateHookSecret(ctx context.Context, client *github.Client, ownerRepo string, hookID int64, secret string) error {
	owner, repo, err := SplitOwnerRepo(ownerRepo)
	if err != nil {
		return err
	}

	hook := &github.Hook{
		Config: map[string]interface{}{
			"secret": secret,
		},
	}

	if _, _, err := client.Repositories.EditHook(ctx, owner, repo, hookID, hook); err != nil {
		return fmt.Errorf("updating webhook %d on %s: %w", hookID, ownerRepo, err)
	}

	return nil
}
