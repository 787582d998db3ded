package google

import "fmt"

// CredentialLoadError indicates the credentials file is missing,
// malformed, or fails shape validation.
type CredentialLoadError struct {
	Path string
	Err  error
}

func (e *CredentialLoadError) Error() string {
	return fmt.Sprintf("load credentials %s: %v", e.Path, e.Err)
}

func (e *CredentialLoadError) Unwrap() error { return e.Err }

// TokenMissingError indicates no usable token exists at the store
// path. The caller should direct the user to the interactive
// authorization flow (gmcp auth).
type TokenMissingError struct {
	Path string
}

func (e *TokenMissingError) Error() string {
	return fmt.Sprintf("no OAuth token found at %s; run 'gmcp auth' to authorize", e.Path)
}

// TokenSaveError indicates a refreshed token could not be persisted.
// The in-memory token is still valid; the process will require
// re-authentication after restart if the save never succeeds.
type TokenSaveError struct {
	Path string
	Err  error
}

func (e *TokenSaveError) Error() string {
	return fmt.Sprintf("save token %s: %v", e.Path, e.Err)
}

func (e *TokenSaveError) Unwrap() error { return e.Err }
