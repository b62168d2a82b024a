// Package permissions holds the role table consulted by the RBAC middleware.
// Paths are chi route patterns, so "/v1/bookings/{id}" matches any booking id.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one method and route pattern.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An empty role list admits any authenticated caller.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]int
}

func routeKey(method, path string) string {
	return method + " " + path
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]int, len(r.Endpoints))
	for i, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := r.index[key]; dup {
			log.Warn().Str("route", key).Msg("duplicate permission entry, first one wins")

			continue
		}

		r.index[key] = i
	}
}

// FindPermissions returns the entry for method and route pattern, or the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.buildIndex()
	}

	idx, ok := r.index[routeKey(method, path)]
	if !ok {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Get decodes the embedded role table. It returns nil when the table is malformed,
// which makes RBAC reject every request.
func Get() *PermissionData {
	var permissions PermissionData

	if err := json.Unmarshal(permissionsData, &permissions); err != nil {
		log.Err(err).Msg("failed to decode embedded permissions")

		return nil
	}

	permissions.buildIndex()

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("loaded role table")

	return &permissions
}
