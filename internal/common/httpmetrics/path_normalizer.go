package httpmetrics

import "strings"

const reviewsPrefix = "/reviews/"

// NormalizePath maps a request path onto the route template that serves it.
// Book identifiers are free-form, and anything that matches no route is
// reported as "unmatched" so scanners cannot grow label cardinality.
func NormalizePath(path string) string {
	switch path {
	case "", "/":
		return "/"
	case "/auth/signup", "/auth/login", "/auth/profile", "/reviews", "/health", "/metrics":
		return path
	}

	if rest, ok := strings.CutPrefix(path, reviewsPrefix); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/reviews/{bookId}"
	}

	return "unmatched"
}
