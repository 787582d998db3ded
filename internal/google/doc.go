// Package google implements the OAuth2 credential and token lifecycle
// for the Google APIs the server talks to.
//
// A Credentials file (the externally provisioned installed-app JSON)
// is loaded once at startup and is immutable for the process lifetime.
// The Token is the only mutable piece of state: whenever the transport
// refreshes it, the Session merges the new fields into the last-known
// token and writes the result through the TokenStore before the
// triggering API call returns.
package google
