package access

// Principal is the authenticated identity as far as the gate is concerned.
type Principal interface {
	UID() string
}

// Profile carries the role loaded for a principal.
type Profile interface {
	ProfileRole() Role
}

// Allow reports whether principal may use a resource requiring role
// required. Admin satisfies every requirement. A missing profile only
// satisfies RoleAny.
func Allow(principal Principal, profile Profile, required Role) bool {
	if principal == nil || principal.UID() == "" {
		return false
	}
	if required == RoleAny {
		return true
	}
	if profile == nil {
		return false
	}

	role := profile.ProfileRole()
	if !role.Valid() {
		return false
	}
	return role == required || role == RoleAdmin
}

// Decision is the outcome of a route check.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectLogin
	DecisionRedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectDashboard:
		return "redirect_dashboard"
	default:
		return "unknown"
	}
}

// Target is the path a redirect decision sends the caller to.
func (d Decision) Target() string {
	switch d {
	case DecisionRedirectLogin:
		return "/login"
	case DecisionRedirectDashboard:
		return "/dashboard"
	default:
		return ""
	}
}

// Route is a client route and the role it requires.
type Route struct {
	Path      string
	Protected bool
	Requires  Role
}

var routes = map[string]Route{
	"/":          {Path: "/"},
	"/login":     {Path: "/login"},
	"/register":  {Path: "/register"},
	"/dashboard": {Path: "/dashboard", Protected: true, Requires: RoleAny},
	"/admin":     {Path: "/admin", Protected: true, Requires: RoleManager},
}

// LookupRoute returns the route registered at path.
func LookupRoute(path string) (Route, bool) {
	r, ok := routes[path]
	return r, ok
}

// Decide applies the gate to a client route. Unknown paths redirect to the
// dashboard when signed in and to the login page otherwise.
func Decide(path string, principal Principal, profile Profile) Decision {
	signedIn := principal != nil && principal.UID() != ""

	route, ok := routes[path]
	if !ok {
		if signedIn {
			return DecisionRedirectDashboard
		}
		return DecisionRedirectLogin
	}
	if !route.Protected {
		return DecisionAllow
	}
	if !signedIn {
		return DecisionRedirectLogin
	}
	if Allow(principal, profile, route.Requires) {
		return DecisionAllow
	}
	return DecisionRedirectDashboard
}
