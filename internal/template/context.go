package template

import (
	"runtime"
	"slices"
	"time"
)

// Context is the data available to module asset templates.
type Context struct {
	ProjectName string
	ProjectRoot string
	// Modules holds the ids of every module being installed in this run.
	Modules []string

	Version   string // ccscaffold version
	Platform  string // runtime.GOOS
	CreatedAt string // RFC 3339
	Year      int
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// NewContext creates a Context for the current platform and time, then
// applies opts.
func NewContext(opts ...ContextOption) *Context {
	now := time.Now()
	c := &Context{
		Platform:  runtime.GOOS,
		CreatedAt: now.UTC().Format(time.RFC3339),
		Year:      now.Year(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithProject sets project-related fields.
func WithProject(name, root string) ContextOption {
	return func(c *Context) {
		c.ProjectName = name
		c.ProjectRoot = root
	}
}

// WithModules records the ids being installed.
func WithModules(ids []string) ContextOption {
	return func(c *Context) {
		c.Modules = slices.Clone(ids)
	}
}

// WithVersion sets the ccscaffold version.
func WithVersion(version string) ContextOption {
	return func(c *Context) {
		c.Version = version
	}
}

// WithTime fixes the creation timestamp.
func WithTime(t time.Time) ContextOption {
	return func(c *Context) {
		c.CreatedAt = t.UTC().Format(time.RFC3339)
		c.Year = t.Year()
	}
}
