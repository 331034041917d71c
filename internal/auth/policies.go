package auth

import (
	"fmt"

	"femilyship-web/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, so it is safe to call more than once.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Members can do everything anonymous users can, plus change essays and log out.
	policies := [][]string{
		{RoleAnonymous, "/", "GET"},
		{RoleAnonymous, "/topic/:id", "GET"},
		{RoleAnonymous, "/essay/:id", "GET"},
		{RoleAnonymous, "/login", "GET"},
		{RoleAnonymous, "/login", "POST"},
		{RoleAnonymous, "/register", "GET"},
		{RoleAnonymous, "/register", "POST"},
		{RoleAnonymous, "/static/*", "GET"},
		{RoleAnonymous, "/robots.txt", "GET"},
		{RoleAnonymous, "/sitemap.xml", "GET"},

		{RoleMember, "/essay/:id/edit", "GET"},
		{RoleMember, "/essay/:id/edit", "POST"},
		{RoleMember, "/essay/:id/delete", "GET"},
		{RoleMember, "/essay/:id/delete", "POST"},
		{RoleMember, "/logout", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	if has, _ := e.HasRoleForUser(RoleMember, RoleAnonymous); !has {
		if _, err := e.AddRoleForUser(RoleMember, RoleAnonymous); err != nil {
			log.Error(err, "Failed to add role 'member' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}
