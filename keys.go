package artmatch

// A Key stashes values in a context.Context.
type Key string

const (
	// CurrentUserKey stashes the *User the navigation guard resolved for a request.
	CurrentUserKey Key = "CurrentUserKey"

	// IpAddrKey stashes the IP address of an HTTP request.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the browser session associated with an HTTP request.
	SessionKey Key = "SessionKey"

	// SessionIDKey stashes the ID of the application session an HTTP request belongs to.
	SessionIDKey Key = "SessionIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "artmatch context key: " + string(k)
}
