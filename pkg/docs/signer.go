package docs

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LinkSigner issues short-lived signed download links for profile documents
// (resume, portfolio PDF). The token is an HMAC-signed JWT embedded in the
// link URL so the document host can verify it statelessly.
type LinkSigner struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewLinkSigner(secret, baseURL string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LinkSigner{
		secret:  []byte(secret),
		baseURL: baseURL,
		ttl:     ttl,
	}
}

// IssueLink signs a download URL for the named document, bound to the
// recipient so a forwarded link reveals who it was issued to.
func (s *LinkSigner) IssueLink(documentID, recipient string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"doc": documentID,
		"sub": recipient,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign document link: %w", err)
	}

	return fmt.Sprintf("%s/documents/%s?token=%s", s.baseURL, documentID, signed), nil
}

// Verify checks a token taken from a download link and returns the document
// id and recipient it was issued for.
func (s *LinkSigner) Verify(tokenStr string) (documentID, recipient string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid document token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid claims")
	}

	doc, _ := claims["doc"].(string)
	sub, _ := claims["sub"].(string)
	if doc == "" {
		return "", "", fmt.Errorf("token missing document id")
	}
	return doc, sub, nil
}
