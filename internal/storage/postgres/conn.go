package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/oversight/internal/constants"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsConnString reports whether s looks like a PostgreSQL URL or DSN rather
// than a file path.
func IsConnString(s string) bool {
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		return true
	}
	_, ok := dsnParams(s)["host"]
	return ok
}

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// dsnParams splits a key=value DSN into lower-cased keys.
func dsnParams(connStr string) map[string]string {
	params := map[string]string{}
	for _, field := range strings.Fields(connStr) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return params
}

// hasParam reports whether connStr sets key, case-insensitively, either as
// a URL query parameter or as a DSN pair.
func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}
	_, ok := dsnParams(connStr)[strings.ToLower(key)]
	return ok
}

// withSearchPath pins the session to the application schema unless the
// caller already chose one.
func withSearchPath(connStr string) string {
	if hasParam(connStr, "search_path") {
		return connStr
	}
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		q := u.Query()
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// ValidateConnString checks that connStr is a PostgreSQL URL or DSN and that
// it carries no password. Passwords belong in ~/.pgpass or PGPASSWORD.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if _, ok := dsnParams(connStr)["password"]; ok {
		return ErrEmbeddedCredentials
	}
	return nil
}
