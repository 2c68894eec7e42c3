// Package identity reads display metadata out of a credential's id token.
//
// The token payload is decoded without verifying its signature. Nothing
// returned here is trusted; it only labels accounts for humans.
package identity

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/codex-rotate/cli/internal/auth"
)

// Unknown is returned for any field that cannot be decoded.
const Unknown = "unknown"

const (
	authClaim    = "https://api.openai.com/auth"
	profileClaim = "https://api.openai.com/profile"
)

// Identity captures account metadata extracted from a credential.
type Identity struct {
	Email     string
	PlanType  string
	AccountID string
}

// Inspect returns every display field of cred in one pass.
func Inspect(cred *auth.Credential) Identity {
	claims, ok := decodeClaims(cred.IDToken())
	id := Identity{
		Email:     Unknown,
		PlanType:  Unknown,
		AccountID: cred.AccountID(),
	}
	if !ok {
		return id
	}
	id.Email = emailFrom(claims)
	id.PlanType = planFrom(claims)
	if id.AccountID == "" {
		id.AccountID = stringClaim(nested(claims, authClaim), "chatgpt_account_id")
	}
	return id
}

// Email returns the id token's email claim, or Unknown.
func Email(cred *auth.Credential) string {
	return Inspect(cred).Email
}

// Plan returns the ChatGPT plan tier from the id token, or Unknown.
func Plan(cred *auth.Credential) string {
	return Inspect(cred).PlanType
}

// AccountID returns the credential's account identifier. It is "" when
// neither the token bundle nor the id token carries one.
func AccountID(cred *auth.Credential) string {
	return Inspect(cred).AccountID
}

// ShortID truncates an account id for tables.
func ShortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func emailFrom(claims map[string]any) string {
	if email := stringClaim(claims, "email"); email != "" {
		return email
	}
	if email := stringClaim(nested(claims, profileClaim), "email"); email != "" {
		return email
	}
	return Unknown
}

func planFrom(claims map[string]any) string {
	if plan := stringClaim(nested(claims, authClaim), "chatgpt_plan_type"); plan != "" {
		return plan
	}
	return Unknown
}

func decodeClaims(token string) (map[string]any, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}

	segment := strings.TrimRight(parts[1], "=")
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, false
	}

	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

func nested(claims map[string]any, key string) map[string]any {
	m, _ := claims[key].(map[string]any)
	return m
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}
