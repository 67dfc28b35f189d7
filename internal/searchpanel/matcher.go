package searchpanel

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Mode selects how a query is matched against buffer lines.
type Mode string

// Supported search modes.
const (
	ModeSubstring Mode = "substring"
	ModeRegex     Mode = "regex"
	ModeToken     Mode = "token"
)

const defaultRegexCacheSize = 128

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeSubstring:
		return ModeSubstring, nil
	case ModeRegex:
		return ModeRegex, nil
	case ModeToken:
		return ModeToken, nil
	default:
		return "", fmt.Errorf("unknown search mode %q: must be one of substring, regex, token", name)
	}
}

// Options holds configuration options for matchers.
type Options struct {
	CaseInsensitive bool // If true, searches ignore case sensitivity
	Mode            Mode
	RegexCacheSize  int
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: false,
		Mode:            ModeSubstring,
		RegexCacheSize:  defaultRegexCacheSize,
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithMode sets the initial search mode.
func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}

// WithRegexCacheSize bounds the number of compiled patterns kept.
func WithRegexCacheSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.RegexCacheSize = n
		}
	}
}

// applyOptions applies the given options to the options struct.
func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// span is a [start, end) byte range within a line.
type span [2]int

// Matcher finds query occurrences within a single line.
type Matcher interface {
	// Find returns the spans of line matching query, in order.
	Find(line, query string, caseInsensitive bool) ([]span, error)
	// Name returns the matcher name for identification and debugging.
	Name() string
}

// substringMatcher matches literal occurrences of the query.
type substringMatcher struct{}

func (substringMatcher) Name() string { return string(ModeSubstring) }

func (substringMatcher) Find(line, query string, caseInsensitive bool) ([]span, error) {
	if query == "" {
		return nil, nil
	}
	if caseInsensitive {
		line = strings.ToLower(line)
		query = strings.ToLower(query)
	}
	return findAll(line, query), nil
}

// regexMatcher matches a regular expression; compiled patterns are kept in an LRU cache.
type regexMatcher struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

func newRegexMatcher(size int) *regexMatcher {
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		// Only returned for a non-positive size.
		cache, _ = lru.New[string, *regexp.Regexp](defaultRegexCacheSize)
	}
	return &regexMatcher{cache: cache}
}

func (m *regexMatcher) Name() string { return string(ModeRegex) }

func (m *regexMatcher) Find(line, query string, caseInsensitive bool) ([]span, error) {
	if query == "" {
		return nil, nil
	}
	re, err := m.compile(query, caseInsensitive)
	if err != nil {
		return nil, err
	}
	var spans []span
	for _, loc := range re.FindAllStringIndex(line, -1) {
		// Zero-width matches have nothing to mark.
		if loc[0] == loc[1] {
			continue
		}
		spans = append(spans, span{loc[0], loc[1]})
	}
	return spans, nil
}

func (m *regexMatcher) compile(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	key := pattern
	if caseInsensitive {
		key = "(?i)" + pattern
	}
	if re, ok := m.cache.Get(key); ok {
		return re, nil
	}
	re, err := regexp.Compile(key)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	m.cache.Add(key, re)
	return re, nil
}

// tokenMatcher splits the query into whitespace-separated tokens.
// A line matches only when every token occurs in it (AND logic); each
// occurrence of each token is returned.
type tokenMatcher struct{}

func (tokenMatcher) Name() string { return string(ModeToken) }

func (tokenMatcher) Find(line, query string, caseInsensitive bool) ([]span, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	if caseInsensitive {
		line = strings.ToLower(line)
	}

	var spans []span
	for _, token := range tokens {
		if caseInsensitive {
			token = strings.ToLower(token)
		}
		found := findAll(line, token)
		if len(found) == 0 {
			return nil, nil
		}
		spans = append(spans, found...)
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i][0] != spans[j][0] {
			return spans[i][0] < spans[j][0]
		}
		return spans[i][1] < spans[j][1]
	})
	return spans, nil
}

// findAll returns the non-overlapping occurrences of needle in hay.
func findAll(hay, needle string) []span {
	var spans []span
	for start := 0; start < len(hay); {
		i := strings.Index(hay[start:], needle)
		if i < 0 {
			break
		}
		s := start + i
		spans = append(spans, span{s, s + len(needle)})
		start = s + len(needle)
	}
	return spans
}
