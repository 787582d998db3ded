package google

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// Token is the persisted token shape. The field names and the
// millisecond epoch expiry are the wire contract of the token file;
// it is overwritten wholesale on every refresh.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	ExpiryDate   int64  `json:"expiry_date"`
}

// OAuth2 converts the stored token to the oauth2 representation used
// by the transport.
func (t *Token) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiryDate > 0 {
		tok.Expiry = time.UnixMilli(t.ExpiryDate)
	}
	return tok
}

// TokenStore loads and saves the token file. It carries no business
// logic: merging refresh responses is the Session's job.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store bound to the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the file path this store persists to.
func (s *TokenStore) Path() string { return s.path }

// Load reads the persisted token. A missing, unreadable, or malformed
// file, or one without any usable credential, is a *TokenMissingError.
func (s *TokenStore) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &TokenMissingError{Path: s.path}
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, &TokenMissingError{Path: s.path}
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, &TokenMissingError{Path: s.path}
	}
	return &tok, nil
}

// Save overwrites the token file with tok. Failures are reported as
// *TokenSaveError.
func (s *TokenStore) Save(tok *Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return &TokenSaveError{Path: s.path, Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &TokenSaveError{Path: s.path, Err: err}
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return &TokenSaveError{Path: s.path, Err: err}
	}
	return nil
}
