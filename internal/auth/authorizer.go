package auth

import (
	"fmt"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"

	"github.com/pkordes/triptracker/backend/internal/domain"
)

// Resources and actions checked by RequirePermission and the trip handlers.
const (
	ResourceTrips = "trips"
	ResourceUsers = "users"

	ActionListAll   = "list_all"   // list every user's trips
	ActionManageAny = "manage_any" // read or change a trip the caller does not own
	ActionManage    = "manage"     // user administration
)

// rbacModel is a role-based model with role inheritance: g(sub, role) makes
// sub inherit every permission role holds.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Authorizer answers role permission questions. ADMIN inherits MANAGER,
// which inherits REGULAR.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds the enforcer from the built-in model and policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("auth.NewAuthorizer: model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("auth.NewAuthorizer: enforcer: %w", err)
	}

	policies := [][]string{
		{string(domain.RoleManager), ResourceUsers, ActionManage},
		{string(domain.RoleAdmin), ResourceTrips, ActionListAll},
		{string(domain.RoleAdmin), ResourceTrips, ActionManageAny},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("auth.NewAuthorizer: policy %v: %w", p, err)
		}
	}
	inherits := [][2]domain.Role{
		{domain.RoleAdmin, domain.RoleManager},
		{domain.RoleManager, domain.RoleRegular},
	}
	for _, g := range inherits {
		if _, err := e.AddGroupingPolicy(string(g[0]), string(g[1])); err != nil {
			return nil, fmt.Errorf("auth.NewAuthorizer: grouping %v: %w", g, err)
		}
	}

	return &Authorizer{enforcer: e}, nil
}

// Allowed reports whether role may perform act on obj.
func (a *Authorizer) Allowed(role domain.Role, obj, act string) bool {
	ok, err := a.enforcer.Enforce(string(role), obj, act)
	return err == nil && ok
}
