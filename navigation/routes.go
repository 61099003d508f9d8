package navigation

// Route is a view of the portal
type Route string

// Route constants
// All portal views are defined here to ensure consistency and prevent typos
const (
	RouteHome     Route = "/"
	RouteLogin    Route = "/login"
	RouteHealth   Route = "/health"
	RouteVendors  Route = "/vendors"
	RouteProducts Route = "/products"
)

// Navigator changes the current view. Navigate is a soft route change inside
// the running front-end; Redirect is a full redirect that discards whatever
// the current view holds.
type Navigator interface {
	Navigate(route Route)
	Redirect(route Route)
}
