// Package testutils builds fixtures shared by package tests.
package testutils

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/codex-rotate/cli/internal/auth"
)

// SetEnv sets environment variables for the duration of a test and returns
// a function restoring the previous values.
func SetEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()
	previous := make(map[string]*string, len(vars))
	for key, value := range vars {
		if old, ok := os.LookupEnv(key); ok {
			previous[key] = &old
		} else {
			previous[key] = nil
		}
		os.Setenv(key, value)
	}
	return func() {
		for key, old := range previous {
			if old == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *old)
			}
		}
	}
}

// IDToken encodes claims as an unsigned three-segment token.
func IDToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// Credential returns a ChatGPT credential whose id token carries email and
// plan and whose token bundle carries accountID.
func Credential(t *testing.T, email, plan, accountID string) *auth.Credential {
	t.Helper()
	claims := map[string]any{
		"email": email,
		"https://api.openai.com/auth": map[string]any{
			"chatgpt_plan_type":  plan,
			"chatgpt_account_id": accountID,
		},
	}
	return &auth.Credential{
		AuthMode: auth.ChatGPT,
		Tokens: &auth.Tokens{
			IDToken:      IDToken(t, claims),
			AccessToken:  "access-" + accountID,
			RefreshToken: "refresh-" + accountID,
			AccountID:    accountID,
		},
		LastRefresh: "2025-06-01T10:00:00Z",
	}
}

// WriteCredential writes cred as the live credential file inside codexHome.
func WriteCredential(t *testing.T, codexHome string, cred *auth.Credential) string {
	t.Helper()
	path := filepath.Join(codexHome, auth.CredentialsFile)
	if err := auth.NewStore(path).Write(cred); err != nil {
		t.Fatalf("write credential: %v", err)
	}
	return path
}
