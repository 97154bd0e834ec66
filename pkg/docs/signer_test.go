package docs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyLink(t *testing.T) {
	signer := NewLinkSigner("test-secret", "https://docs.example.com", 15*time.Minute)

	link, err := signer.IssueLink("resume", "visitor@example.com")
	require.NoError(t, err)
	assert.Contains(t, link, "https://docs.example.com/documents/resume?token=")

	tokenStr := link[strings.Index(link, "token=")+len("token="):]
	doc, recipient, err := signer.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "resume", doc)
	assert.Equal(t, "visitor@example.com", recipient)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signer := NewLinkSigner("test-secret", "https://docs.example.com", -1*time.Minute)
	// ttl <= 0 falls back to the default, so build an expired signer manually
	signer.ttl = -1 * time.Minute

	link, err := signer.IssueLink("resume", "visitor@example.com")
	require.NoError(t, err)

	tokenStr := link[strings.Index(link, "token=")+len("token="):]
	_, _, err = signer.Verify(tokenStr)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewLinkSigner("secret-a", "https://docs.example.com", 15*time.Minute)
	other := NewLinkSigner("secret-b", "https://docs.example.com", 15*time.Minute)

	link, err := signer.IssueLink("portfolio", "visitor@example.com")
	require.NoError(t, err)

	tokenStr := link[strings.Index(link, "token=")+len("token="):]
	_, _, err = other.Verify(tokenStr)
	assert.Error(t, err)
}
