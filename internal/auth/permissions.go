package auth

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/sgvr/sgvr/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Permission keys recognized by the static tier table.
const (
	PermissionDashboard         = "dashboard"
	PermissionRegistros         = "registros"
	PermissionRelatorios        = "relatorios"
	PermissionGerenciarUsuarios = "gerenciar-usuarios"
	PermissionUsuarios          = "usuarios"
)

// tierPermissions maps role names to the permissions that tier grants.
var tierPermissions = map[string][]string{
	models.RoleAdministrador: {PermissionDashboard, PermissionRegistros, PermissionRelatorios, PermissionGerenciarUsuarios, PermissionUsuarios},
	models.NivelAnalista:     {PermissionDashboard, PermissionRegistros, PermissionRelatorios},
	models.NivelOperador:     {PermissionDashboard, PermissionRegistros},
	models.NivelVisualizador: {PermissionDashboard},
}

// roleLookupTimeout bounds the role-assignment query.
const roleLookupTimeout = 3 * time.Second

// roleSourceState reports whether the role source answered at all. An
// unavailable source (missing tables, query fault) is distinct from a source
// that answered with zero roles, even though both contribute no grants.
type roleSourceState int

const (
	roleSourceOK roleSourceState = iota
	roleSourceUnavailable
)

// Resolver decides allow/deny for a principal and a requested permission.
type Resolver struct {
	db *gorm.DB
}

// NewResolver constructs a permission resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Authorize evaluates the authority sources in precedence order and
// short-circuits on the first grant:
//
//  1. administrator authority tier,
//  2. an assigned role named Administrador,
//  3. the static tier table for any assigned role,
//  4. the user's own stored permission set.
//
// Faults in the role source degrade to an empty role set; malformed stored
// permissions parse to an empty set. Authorize never returns an error.
func (r *Resolver) Authorize(ctx context.Context, user *models.User, permission string) bool {
	if r == nil || user == nil {
		return false
	}
	permission = strings.TrimSpace(permission)
	if permission == "" {
		return false
	}

	if user.IsAdministrator() {
		return true
	}

	roles, state := r.resolveRoles(ctx, user.ID)
	if state == roleSourceOK {
		for _, role := range roles {
			if role == models.RoleAdministrador {
				return true
			}
		}
		for _, role := range roles {
			for _, granted := range tierPermissions[role] {
				if granted == permission {
					return true
				}
			}
		}
	}

	return permissionSetContains(user.Permissions, permission)
}

// EffectivePermissions returns the union of static-tier grants for the
// user's assigned roles plus the stored permission set. Administrators get
// the full Administrador tier.
func (r *Resolver) EffectivePermissions(ctx context.Context, user *models.User) []string {
	if r == nil || user == nil {
		return nil
	}

	granted := map[string]struct{}{}
	if user.IsAdministrator() {
		for _, permission := range tierPermissions[models.RoleAdministrador] {
			granted[permission] = struct{}{}
		}
	}

	roles, state := r.resolveRoles(ctx, user.ID)
	if state == roleSourceOK {
		for _, role := range roles {
			for _, permission := range tierPermissions[role] {
				granted[permission] = struct{}{}
			}
		}
	}
	for _, permission := range ParsePermissionSet(user.Permissions) {
		granted[permission] = struct{}{}
	}

	out := make([]string, 0, len(granted))
	for permission := range granted {
		out = append(out, permission)
	}
	sort.Strings(out)
	return out
}

// resolveRoles loads the role names assigned to a user, matching every
// legacy spelling of the user principal type. Any query fault reads as an
// unavailable source, never as an authorization error.
func (r *Resolver) resolveRoles(ctx context.Context, userID uint64) ([]string, roleSourceState) {
	if r.db == nil {
		return nil, roleSourceUnavailable
	}

	lookupCtx, cancel := context.WithTimeout(ctx, roleLookupTimeout)
	defer cancel()

	var names []string
	errQuery := r.db.WithContext(lookupCtx).
		Table("role_assignments").
		Joins("JOIN roles ON roles.id = role_assignments.role_id").
		Where("role_assignments.principal_id = ?", userID).
		Where("role_assignments.principal_type IN ?", models.UserPrincipalTypes).
		Pluck("roles.name", &names).Error
	if errQuery != nil {
		log.WithError(errQuery).Debug("role source unavailable")
		return nil, roleSourceUnavailable
	}
	return names, roleSourceOK
}

// ParsePermissionSet decodes the stored JSON permission list. Malformed or
// absent data parses to an empty set, never an error.
func ParsePermissionSet(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var permissions []string
	if errUnmarshal := json.Unmarshal(raw, &permissions); errUnmarshal != nil {
		return nil
	}
	out := permissions[:0]
	for _, permission := range permissions {
		trimmed := strings.TrimSpace(permission)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// permissionSetContains reports membership in the stored permission set.
func permissionSetContains(raw datatypes.JSON, permission string) bool {
	for _, granted := range ParsePermissionSet(raw) {
		if granted == permission {
			return true
		}
	}
	return false
}
