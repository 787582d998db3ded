package google

import (
	"encoding/json"
	"errors"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultScopes are the OAuth scopes the server requests. Full Gmail
// access (read, modify, send) plus Calendar.
var DefaultScopes = []string{
	gmail.MailGoogleComScope,
	calendar.CalendarScope,
}

// credentialsFile mirrors the JSON shape of an installed-app OAuth
// client downloaded from the Google Cloud console.
type credentialsFile struct {
	Installed *installedClient `json:"installed"`
}

type installedClient struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	ProjectID    string   `json:"project_id"`
	RedirectURIs []string `json:"redirect_uris"`
}

// LoadCredentials reads and validates an installed-app credentials
// file and returns the oauth2 config built from it. Any failure is a
// *CredentialLoadError.
func LoadCredentials(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CredentialLoadError{Path: path, Err: err}
	}

	var f credentialsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &CredentialLoadError{Path: path, Err: err}
	}

	if f.Installed == nil {
		return nil, &CredentialLoadError{Path: path, Err: errors.New(`missing "installed" client`)}
	}
	c := f.Installed
	switch {
	case c.ClientID == "":
		return nil, &CredentialLoadError{Path: path, Err: errors.New("missing client_id")}
	case c.ClientSecret == "":
		return nil, &CredentialLoadError{Path: path, Err: errors.New("missing client_secret")}
	case len(c.RedirectURIs) == 0:
		return nil, &CredentialLoadError{Path: path, Err: errors.New("missing redirect_uris")}
	}

	endpoint := googleoauth.Endpoint
	if c.AuthURI != "" {
		endpoint.AuthURL = c.AuthURI
	}
	if c.TokenURI != "" {
		endpoint.TokenURL = c.TokenURI
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  c.RedirectURIs[0],
		Scopes:       DefaultScopes,
	}, nil
}
