// internal/pages/resolution.go
package pages

// Resolution identifies one in-flight page pipeline. A value is created at
// the start of handling a request or a module visit and passed explicitly to
// every later step; nothing about the current page lives in shared state, so
// overlapping requests cannot clobber each other's page name.
type Resolution struct {
	// Name is the canonical page name.
	Name string

	// Build is true for a bundler module visit and false for a dev request.
	Build bool
}
