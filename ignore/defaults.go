package ignore

// DefaultSkipDirs contains directory names that are never descended into,
// regardless of ignore rules. These are dependency caches, build output,
// version-control metadata, and virtual environments that are never useful
// in a context export.
var DefaultSkipDirs = map[string]bool{
	// Version control
	".git": true,
	".svn": true,
	".hg":  true,

	// Python
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	".pytest_cache": true,
	".mypy_cache":   true,

	// Dependencies
	"node_modules": true,

	// Build output
	"build":  true,
	"dist":   true,
	"target": true,
	"bin":    true,
	"obj":    true,
	"out":    true,
}

// SkippedByDefault reports whether a directory name is in the default
// skip set.
func SkippedByDefault(dirName string) bool {
	return DefaultSkipDirs[dirName]
}
