package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/valdris/riftkit/pkg/hashdict"
	"github.com/valdris/riftkit/pkg/prop"
)

// maxUploadBytes caps inspect uploads; property tree files are small.
const maxUploadBytes = 64 << 20

// Server holds the API server state
type Server struct {
	resolver  Resolver
	config    ServerConfig
	metrics   *Metrics
	started   time.Time
	inspected atomic.Uint64
}

// NewServer creates a new API server. resolver may be nil when no hash
// dictionary is configured.
func NewServer(resolver Resolver, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		resolver: resolver,
		config:   config,
		metrics:  metrics,
		started:  time.Now(),
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleInspect decodes an uploaded property tree file and returns it as
// JSON. The upload is the raw file bytes.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		s.metrics.RecordDecode(false, 0, time.Since(start))
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxUploadBytes {
		s.metrics.RecordDecode(false, len(body), time.Since(start))
		sendError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	tree, err := prop.DecodeBytes(body)
	if err != nil {
		s.metrics.RecordDecode(false, len(body), time.Since(start))
		status := http.StatusUnprocessableEntity
		if errors.Is(err, prop.ErrFormat) {
			status = http.StatusBadRequest
		}
		sendError(w, fmt.Sprintf("Decode failed: %v", err), status)
		return
	}
	s.metrics.RecordDecode(true, len(body), time.Since(start))
	s.inspected.Add(1)

	deps := tree.Dependencies
	if deps == nil {
		deps = []string{}
	}
	sendSuccess(w, InspectResponse{
		Dependencies: deps,
		EntryCount:   len(tree.Entries),
		Tree:         tree,
	})
}

// handleLookupHash resolves a hex hash to a name via the dictionary.
func (s *Server) handleLookupHash(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(strings.ToLower(chi.URLParam(r, "hash")), "0x")
	hash, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		sendError(w, "Invalid hash", http.StatusBadRequest)
		return
	}
	if s.resolver == nil {
		sendError(w, "No hash dictionary configured", http.StatusServiceUnavailable)
		return
	}

	name, found := s.resolver.Lookup(uint32(hash))
	s.metrics.RecordDictLookup(found)
	sendSuccess(w, HashLookupResponse{
		Hash:  fmt.Sprintf("0x%08x", uint32(hash)),
		Name:  name,
		Known: found,
	})
}

// handleComputeHash hashes a name with the format's name hash.
func (s *Server) handleComputeHash(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		sendError(w, "Query parameter 'name' is required", http.StatusBadRequest)
		return
	}
	sendSuccess(w, HashComputeResponse{
		Name: name,
		Hash: fmt.Sprintf("0x%08x", hashdict.Hash(name)),
	})
}

// handleStats reports service statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := StatsResponse{
		TreesInspected: s.inspected.Load(),
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
	}
	if s.resolver != nil {
		if count, err := s.resolver.Count(); err == nil {
			stats.DictEntries = count
			s.metrics.UpdateDictStats(count)
		}
	}
	sendSuccess(w, stats)
}
