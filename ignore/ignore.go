package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// RuleKind classifies how a pattern is applied to a path.
type RuleKind int

const (
	// AnyDepthMatch is a plain glob, matched against the full relative
	// path and against the basename.
	AnyDepthMatch RuleKind = iota
	// DirectoryMatch is a trailing-slash pattern, matched against the
	// directory components of a path.
	DirectoryMatch
)

// Rule is a single compiled ignore pattern. Immutable once created.
type Rule struct {
	Pattern string
	Kind    RuleKind
	// dirPattern is Pattern with the trailing slash stripped, set for
	// DirectoryMatch rules.
	dirPattern string
}

// NewRule derives a Rule from a raw pattern line.
func NewRule(pattern string) Rule {
	if strings.HasSuffix(pattern, "/") {
		return Rule{
			Pattern:    pattern,
			Kind:       DirectoryMatch,
			dirPattern: strings.TrimRight(pattern, "/"),
		}
	}
	return Rule{Pattern: pattern, Kind: AnyDepthMatch}
}

// RuleSet holds the ignore rules loaded for one scan root plus an optional
// .gitignore overlay. A single matching rule is sufficient to ignore a
// path; there is no negation and rule order does not affect the result.
// Read-only after creation, safe for concurrent use.
type RuleSet struct {
	rules     []Rule
	gitIgnore gitignore.GitIgnore
}

// NewRuleSet builds a RuleSet from raw pattern strings without touching
// the filesystem. File loading goes through Load.
func NewRuleSet(patterns []string) *RuleSet {
	rs := &RuleSet{rules: make([]Rule, 0, len(patterns))}
	for _, p := range patterns {
		rs.rules = append(rs.rules, NewRule(p))
	}
	return rs
}

// LoadOptions configures rule loading for a scan root.
type LoadOptions struct {
	RootDir string
	// ExtraPatterns are appended after the .contextignore rules.
	ExtraPatterns []string
	// UseGitignore additionally applies <root>/.gitignore rules. The
	// overlay never changes how .contextignore patterns match.
	UseGitignore bool
}

// Load reads <root>/.contextignore and builds the RuleSet for a scan.
// A missing file yields an empty set. An unreadable or partially read
// file yields whatever was parsed, with the returned error reporting the
// problem so the caller can log a warning; loading never fails the scan.
func Load(options LoadOptions) (*RuleSet, error) {
	rs := &RuleSet{}

	patterns, loadErr := readPatternFile(filepath.Join(options.RootDir, ".contextignore"))
	for _, p := range patterns {
		rs.rules = append(rs.rules, NewRule(p))
	}
	for _, p := range options.ExtraPatterns {
		rs.rules = append(rs.rules, NewRule(p))
	}

	if options.UseGitignore {
		rs.gitIgnore = loadGitignore(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	}

	return rs, loadErr
}

// Len returns the number of loaded rules, excluding the gitignore overlay.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Ignored reports whether the relative path matches any rule. The path is
// normalized to forward slashes before matching; isDir tells the matcher
// whether the final segment denotes a directory, which is required for
// trailing-slash rules to match the directory itself. Pure function of
// its inputs, no filesystem access.
func (rs *RuleSet) Ignored(relativePath string, isDir bool) bool {
	path := filepath.ToSlash(relativePath)
	components := strings.Split(path, "/")
	baseName := components[len(components)-1]

	for _, rule := range rs.rules {
		if matchesRule(rule, path, components, baseName, isDir) {
			return true
		}
	}

	if rs.gitIgnore != nil {
		if match := rs.gitIgnore.Relative(path, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return false
}

// matchesRule evaluates a single rule against a normalized path.
func matchesRule(rule Rule, path string, components []string, baseName string, isDir bool) bool {
	// Full-path glob match. A single "*" here does not cross "/": use
	// "**" to match across directories, or rely on the basename step
	// below for depth-independent patterns like "*.log".
	if matched, err := doublestar.Match(rule.Pattern, path); err == nil && matched {
		return true
	}

	if rule.Kind == DirectoryMatch {
		// A directory rule matches when any component of the path except
		// the final file segment matches, so "build/" excludes
		// "a/build/x.txt" via the "build" component.
		for _, part := range components[:len(components)-1] {
			if matched, err := doublestar.Match(rule.dirPattern, part); err == nil && matched {
				return true
			}
		}
		// The final segment counts too when the path denotes a directory.
		if isDir {
			if matched, err := doublestar.Match(rule.dirPattern, baseName); err == nil && matched {
				return true
			}
		}
		return false
	}

	// Basename match covers patterns like "*.log" at any depth.
	matched, err := doublestar.Match(rule.Pattern, baseName)
	return err == nil && matched
}

// readPatternFile parses an ignore file: one pattern per line, blank lines
// and #-comments skipped. A missing file is not an error.
func readPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// loadGitignore reads a .gitignore file and creates a matcher from it.
// Uses the io.Reader form so the file handle is closed promptly on Windows.
func loadGitignore(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
