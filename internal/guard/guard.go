// ABOUTME: Pure access decision for protected views
// ABOUTME: Maps (session, required role level) to allow or a redirect path

package guard

import (
	"github.com/llm-se/sentinel-cli/internal/session"
)

// Navigation targets for denied access.
const (
	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/"
	// LandingPath is where authenticated but under-privileged users are
	// sent. Insufficient role is not an error page.
	LandingPath = "/chat"
)

// AdminRoleLevel is the minimum role level for the admin surfaces, matching
// the backend's gate.
const AdminRoleLevel = 3

// Decision is the outcome of an access check. Redirect is only set when
// Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

// Decide maps a session and a minimum role level to an access decision.
// It performs no I/O and never mutates the session.
func Decide(s session.Session, minRoleLevel int) Decision {
	if s.User == nil {
		return Decision{Redirect: LoginPath}
	}
	if s.User.RoleLevel < minRoleLevel {
		return Decision{Redirect: LandingPath}
	}
	return Decision{Allow: true}
}

// DecideAny checks a route with no role floor: any authenticated session
// passes.
func DecideAny(s session.Session) Decision {
	return Decide(s, 0)
}
