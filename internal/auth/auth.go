package auth

import (
	"bytes"
	"encoding/json"
)

// AuthMode is the value Codex records in auth_mode
type AuthMode string

const (
	// ChatGPT is an OAuth login against a ChatGPT account
	ChatGPT AuthMode = "chatgpt"
	// APIKey is a plain OPENAI_API_KEY login
	APIKey AuthMode = "apikey"
)

// Tokens is the OAuth token bundle of a ChatGPT login
type Tokens struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccountID    string `json:"account_id,omitempty"`
}

// Credential is the document Codex reads from auth.json. Keys this tool does
// not know about are kept and written back unchanged.
type Credential struct {
	AuthMode     AuthMode `json:"auth_mode,omitempty"`
	OpenAIAPIKey *string  `json:"OPENAI_API_KEY"`
	Tokens       *Tokens  `json:"tokens,omitempty"`
	LastRefresh  string   `json:"last_refresh,omitempty"`

	extra map[string]json.RawMessage
}

var credentialKeys = []string{"auth_mode", "OPENAI_API_KEY", "tokens", "last_refresh"}

// UnmarshalJSON decodes the known fields and keeps the rest.
func (c *Credential) UnmarshalJSON(data []byte) error {
	type plain Credential
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range credentialKeys {
		delete(all, key)
	}
	for key, value := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return err
		}
		all[key] = buf.Bytes()
	}

	*c = Credential(p)
	c.extra = nil
	if len(all) > 0 {
		c.extra = all
	}
	return nil
}

// MarshalJSON encodes the known fields merged with any preserved keys.
func (c Credential) MarshalJSON() ([]byte, error) {
	type plain Credential
	data, err := json.Marshal(plain(c))
	if err != nil || len(c.extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range c.extra {
		if _, known := merged[key]; !known {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// AccountID returns tokens.account_id, or "" when there are no tokens.
func (c *Credential) AccountID() string {
	if c == nil || c.Tokens == nil {
		return ""
	}
	return c.Tokens.AccountID
}

// IDToken returns tokens.id_token, or "" when there are no tokens.
func (c *Credential) IDToken() string {
	if c == nil || c.Tokens == nil {
		return ""
	}
	return c.Tokens.IDToken
}
