package config

import (
	"net"
	"net/url"
)

// PostgresEndpoint is one side of the read/write split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

// DatabaseName applies the optional environment prefix, e.g. "staging_" + "donorlink".
func (e PostgresEndpoint) DatabaseName(prefix string) string {
	return prefix + e.Name
}

// DSN renders a postgres:// URL. Credentials are escaped; extra carries driver or
// migrate options such as x-migrations-table.
func (e PostgresEndpoint) DSN(prefix string, extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.DatabaseName(prefix),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}
