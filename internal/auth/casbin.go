package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
)

// Roles known to the route policy.
const (
	RoleAnonymous = "anonymous"
	RoleMember    = "member"
)

// modelText is the RBAC model for route access. Objects are URL paths matched
// with keyMatch2, so policies may use ":id" segments and a trailing "*".
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// NewEnforcer creates a Casbin enforcer with an in-memory policy store.
// Policies are added with SeedDefaultPolicies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	return enforcer, nil
}
