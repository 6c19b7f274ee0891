// Package nav names the client's views and decides which of them the current
// session may reach.
package nav

import "github.com/five82/shelf/internal/session"

// Route identifies a navigable view.
type Route string

const (
	RouteHome          Route = "home"
	RouteAllBooks      Route = "all-books"
	RouteFavoriteBooks Route = "favorite-books"
	RouteLogin         Route = "login"
	RouteSignup        Route = "signup"
	RouteExplore       Route = "explore"
	RouteBookDetail    Route = "book-detail"
	RouteProfile       Route = "profile"
	RouteAddBooks      Route = "add-books"
	RouteManageBooks   Route = "manage-books"
)

// Routes lists every route in navigation order.
var Routes = []Route{
	RouteHome, RouteAllBooks, RouteFavoriteBooks, RouteLogin, RouteSignup,
	RouteExplore, RouteBookDetail, RouteProfile, RouteAddBooks, RouteManageBooks,
}

// AdminOnly reports whether route requires an admin session.
func AdminOnly(route Route) bool {
	switch route {
	case RouteProfile, RouteAddBooks, RouteManageBooks:
		return true
	}
	return false
}

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	RedirectHome
)

// Guard decides whether s may open route. It holds no state; callers check on
// every navigation so a role change applies immediately.
func Guard(s session.Session, route Route) Decision {
	if AdminOnly(route) && !s.IsAdmin() {
		return RedirectHome
	}
	return Allow
}

// Resolve returns the route that should actually be shown.
func Resolve(s session.Session, route Route) Route {
	if Guard(s, route) == RedirectHome {
		return RouteHome
	}
	return route
}

// Link is a navbar entry.
type Link struct {
	Title string
	Route Route
}

// Links returns the navbar entries visible to s.
func Links(s session.Session) []Link {
	links := []Link{
		{Title: "Home", Route: RouteHome},
		{Title: "All Books", Route: RouteAllBooks},
	}
	switch {
	case !s.LoggedIn:
		links = append(links,
			Link{Title: "Log In", Route: RouteLogin},
			Link{Title: "Sign Up", Route: RouteSignup},
		)
	case s.Role == session.RoleAdmin:
		links = append(links,
			Link{Title: "Add Books", Route: RouteAddBooks},
			Link{Title: "Admin Profile", Route: RouteProfile},
		)
	default:
		links = append(links, Link{Title: "My Favorites", Route: RouteFavoriteBooks})
	}
	return links
}
