package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const snippetLength = 200

// DocSearcher implements the search_docs tool over a directory of
// markdown files. Results are cached per query because the corpus only
// changes on deploy.
type DocSearcher struct {
	root  string
	cache *cache.Cache
}

func NewDocSearcher(root string) *DocSearcher {
	return &DocSearcher{
		root:  root,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// SearchDocs returns every markdown file matching at least one query
// term, in filename order. An unreadable corpus is an infrastructure
// failure (ErrToolUnavailable); a query with no matches is not.
func (s *DocSearcher) SearchDocs(query string) ([]DocHit, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if x, found := s.cache.Get(key); found {
		return x.([]DocHit), nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading docs corpus %s: %v", ErrToolUnavailable, s.root, err)
	}

	terms := strings.Fields(key)
	hits := []DocHit{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: reading doc %s: %v", ErrToolUnavailable, entry.Name(), err)
		}
		content := string(raw)

		if !matchesAnyTerm(strings.ToLower(entry.Name()+" "+content), terms) {
			continue
		}

		hits = append(hits, DocHit{
			Filename:  entry.Name(),
			Title:     extractTitle(content, entry.Name()),
			Snippet:   extractSnippet(content),
			KeyPoints: extractKeyPoints(content),
		})
	}

	s.cache.Set(key, hits, cache.DefaultExpiration)
	return hits, nil
}

func matchesAnyTerm(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// extractTitle takes the first markdown heading, falling back to the filename.
func extractTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return strings.TrimSuffix(filename, ".md")
}

// extractSnippet joins the body text (headings and bullets excluded)
// and truncates it to snippetLength characters.
func extractSnippet(content string) string {
	var parts []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || isBullet(trimmed) {
			continue
		}
		parts = append(parts, trimmed)
	}
	snippet := strings.Join(parts, " ")
	if runes := []rune(snippet); len(runes) > snippetLength {
		snippet = string(runes[:snippetLength])
	}
	return snippet
}

// extractKeyPoints collects top-level bullet lines.
func extractKeyPoints(content string) []string {
	var points []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if isBullet(trimmed) {
			points = append(points, strings.TrimSpace(trimmed[1:]))
		}
	}
	return points
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}
