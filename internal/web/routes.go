package web

import "github.com/authentiq/portal/internal/models"

// Route is one entry of the fixed page table.
type Route struct {
	Path   string      `json:"path"`
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Portal string      `json:"portal,omitempty"`
	Flow   models.Flow `json:"flow,omitempty"`
}

// Routes is the fixed route table in navigation order.
var Routes = []Route{
	{Path: "/", Name: "landing", Title: "AuthentiQ"},
	{Path: "/about", Name: "about", Title: "About Us"},
	{Path: "/contact", Name: "contact", Title: "Contact Us"},
	{Path: "/how-it-works", Name: "how-it-works", Title: "How It Works"},

	{Path: "/institution/login", Name: "institution-login", Title: "Institution Login", Portal: "institution"},
	{Path: "/institution/dashboard", Name: "institution-dashboard", Title: "Institution Dashboard", Portal: "institution"},
	{Path: "/institution/upload", Name: "institution-upload", Title: "Upload Documents", Portal: "institution", Flow: models.FlowUpload},
	{Path: "/institution/blacklist", Name: "institution-blacklist", Title: "Blacklist", Portal: "institution"},

	{Path: "/admin/login", Name: "admin-login", Title: "Admin Login", Portal: "admin"},
	{Path: "/admin/approval", Name: "admin-approval", Title: "Institution Approvals", Portal: "admin"},

	{Path: "/verifier/login", Name: "verifier-login", Title: "Verifier Login", Portal: "verifier"},
	{Path: "/verifier/dashboard", Name: "verifier-dashboard", Title: "Verifier Dashboard", Portal: "verifier"},
	{Path: "/verifier/verify", Name: "verifier-verify", Title: "Verify Document", Portal: "verifier", Flow: models.FlowVerify},
}

// NotFound is rendered for every path outside the route table.
var NotFound = Route{Path: "*", Name: "not-found", Title: "Page Not Found"}

var routesByPath = func() map[string]Route {
	m := make(map[string]Route, len(Routes))
	for _, r := range Routes {
		m[r.Path] = r
	}
	return m
}()

// Lookup finds the route registered for an exact path.
func Lookup(path string) (Route, bool) {
	r, ok := routesByPath[path]
	return r, ok
}

// Resolve returns the route for path, or NotFound.
func Resolve(path string) Route {
	if r, ok := Lookup(path); ok {
		return r
	}
	return NotFound
}

// PublicNav returns the routes linked from the site header.
func PublicNav() []Route {
	return Routes[:4]
}
