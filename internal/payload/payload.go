// Package payload carries the sample webhook payloads bundled with
// hooksign. The literals mirror real GitHub event bodies and are treated
// as opaque bytes throughout: they are never parsed or validated as JSON,
// only fed through the signer.
package payload

import "fmt"

// Sample names, in display order.
const (
	Minimal           = "minimal"
	CommentCreated    = "comment-created"
	PullRequestOpened = "pull-request-opened"
)

const (
	minimalBody = `{"tmp":"bob"}`

	commentCreatedBody = `{"action":"created","comment":{"body":"test review","id":1234,"url":"https://github.com/huggingface/lor-e/5#comment-123"}, "issue":{"title":"my great contribution to the world","body":"superb work, isnt it","id":4321,"number":5,"html_url":"https://github.com/huggingface/lor-e/5", "url":"https://github.com/api/huggingface/lor-e/5"}}`

	pullRequestOpenedBody = `{"action":"opened","number":6,"pull_request":{"title":"fix config reload on SIGHUP","body":"reload profiles without restart","id":5678,"number":6,"html_url":"https://github.com/huggingface/lor-e/pull/6","url":"https://github.com/api/huggingface/lor-e/pull/6"},"repository":{"id":111,"full_name":"huggingface/lor-e"}}`
)

var samples = map[string]string{
	Minimal:           minimalBody,
	CommentCreated:    commentCreatedBody,
	PullRequestOpened: pullRequestOpenedBody,
}

// Names returns the sample names in display order.
func Names() []string {
	return []string{Minimal, CommentCreated, PullRequestOpened}
}

// Get returns the raw bytes of the named sample payload.
func Get(name string) ([]byte, error) {
	body, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample payload '%s'", name)
	}
	return []byte(body), nil
}
