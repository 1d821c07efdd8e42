// Package jwt issues and verifies the short-lived access tokens returned
// after a successful phone verification, and carries their claims through
// request contexts.
package jwt
