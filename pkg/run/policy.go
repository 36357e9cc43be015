package run

import (
	"fmt"

	"github.com/gobwas/glob"
)

// NavigationPolicy restricts which URLs navigate actions may target.
// A nil policy, or one built from no patterns, allows everything.
type NavigationPolicy struct {
	patterns []string
	globs    []glob.Glob
}

// NewNavigationPolicy compiles the given glob patterns. Returns nil
// when no patterns are given.
func NewNavigationPolicy(patterns []string) (*NavigationPolicy, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid URL pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	return &NavigationPolicy{patterns: patterns, globs: globs}, nil
}

// Allows reports whether the URL matches at least one pattern.
func (p *NavigationPolicy) Allows(url string) bool {
	if p == nil || len(p.globs) == 0 {
		return true
	}
	for _, g := range p.globs {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns, for logs.
func (p *NavigationPolicy) Patterns() []string {
	if p == nil {
		return nil
	}
	return p.patterns
}
