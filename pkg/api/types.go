package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
	// DictDir is where the hash dictionary lives; empty disables lookups.
	DictDir string
}

// HashLookupResponse is the payload for a hash lookup.
type HashLookupResponse struct {
	Hash  string `json:"hash"`
	Name  string `json:"name,omitempty"`
	Known bool   `json:"known"`
}

// HashComputeResponse is the payload for a name-to-hash computation.
type HashComputeResponse struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// InspectResponse wraps a decoded property tree.
type InspectResponse struct {
	Dependencies []string    `json:"dependencies"`
	EntryCount   int         `json:"entry_count"`
	Tree         interface{} `json:"tree"`
}

// StatsResponse reports service statistics.
type StatsResponse struct {
	DictEntries    int    `json:"dict_entries"`
	TreesInspected uint64 `json:"trees_inspected"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// Resolver resolves name hashes back to names. *hashdict.Dict satisfies it;
// a nil Resolver disables resolution.
type Resolver interface {
	Lookup(hash uint32) (string, bool)
	Count() (int, error)
}
