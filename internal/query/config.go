package query

// Default pagination limits used when a Config leaves them unset.
const (
	DefaultLimit     = 20
	DefaultMaxLimit  = 100
	DefaultSortField = "createdAt"
)

// Config is the per-endpoint allow-list declaration. Build it once with NewConfig at
// startup; it is read-only afterwards and safe for concurrent use.
type Config struct {
	MaxLimit     int
	DefaultLimit int
	// DefaultSort replaces createdAt desc when no sortBy is given.
	DefaultSort []SortField

	sortFields   map[string]bool
	filterFields map[string]bool
	searchFields []string
	expands      map[string]bool
}

// ConfigOptions lists the allow-lists of an endpoint. Empty sort/filter/search lists
// allow every field; an empty expand list allows none.
type ConfigOptions struct {
	MaxLimit            int
	DefaultLimit        int
	DefaultSort         []SortField
	AllowedSortFields   []string
	AllowedFilterFields []string
	AllowedSearchFields []string
	AllowedExpands      []string
}

// NewConfig builds an immutable Config, applying default limits.
func NewConfig(opts ConfigOptions) *Config {
	c := &Config{
		MaxLimit:     opts.MaxLimit,
		DefaultLimit: opts.DefaultLimit,
		DefaultSort:  append([]SortField(nil), opts.DefaultSort...),
		sortFields:   toSet(opts.AllowedSortFields),
		filterFields: toSet(opts.AllowedFilterFields),
		searchFields: dedupe(opts.AllowedSearchFields),
		expands:      toSet(opts.AllowedExpands),
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = DefaultMaxLimit
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	return c
}

// DefaultConfig returns a Config without allow-lists.
func DefaultConfig() *Config {
	return NewConfig(ConfigOptions{})
}

// SortAllowed reports whether field may be used in sortBy.
func (c *Config) SortAllowed(field string) bool {
	return len(c.sortFields) == 0 || c.sortFields[field]
}

// FilterAllowed reports whether field may be filtered on.
func (c *Config) FilterAllowed(field string) bool {
	return len(c.filterFields) == 0 || c.filterFields[field]
}

// SearchFields returns a copy of the allowed search fields.
func (c *Config) SearchFields() []string {
	return append([]string(nil), c.searchFields...)
}

// SearchAllowed reports whether field may be searched.
func (c *Config) SearchAllowed(field string) bool {
	if len(c.searchFields) == 0 {
		return true
	}
	for _, f := range c.searchFields {
		if f == field {
			return true
		}
	}
	return false
}

// ExpandAllowed reports whether relation may be expanded.
func (c *Config) ExpandAllowed(relation string) bool {
	return c.expands[relation]
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}
