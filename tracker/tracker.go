package tracker

import (
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/relaywatch/torwatch/control"
)

// Resolver is the subset of control.Controller the tracker needs to
// resolve relay metadata. Defined as an interface so tests can supply a
// fake without opening a real control connection.
type Resolver interface {
	GetInfoMultiple(keys []string) (map[string]control.Value, error)
}

// NodesChangedFunc is invoked after the tracker resolves a new domain's
// three relays.
type NodesChangedFunc func(domain string, nodes [3]NodeInfo)

// Tracker maintains three maps: circuits (keyed by circuit id),
// circuit->domain assignment, and domain->NodeInfo cache. All three are
// owned exclusively by Tracker; no other component mutates them.
type Tracker struct {
	mu            sync.Mutex
	circuits      map[string]CircuitRecord
	circuitDomain map[string]string
	domainNodes   map[string][3]NodeInfo

	resolver       Resolver
	onNodesChanged NodesChangedFunc
	logger         *slog.Logger

	// inflight collapses concurrent SENTCONNECT events for the same
	// not-yet-assigned circuit into a single GETINFO batch.
	inflight singleflight.Group
}

// New creates a Tracker. onNodesChanged may be nil (useful in tests that
// only want to inspect DomainNodes directly).
func New(resolver Resolver, onNodesChanged NodesChangedFunc, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		circuits:       make(map[string]CircuitRecord),
		circuitDomain:  make(map[string]string),
		domainNodes:    make(map[string][3]NodeInfo),
		resolver:       resolver,
		onNodesChanged: onNodesChanged,
		logger:         logger,
	}
}

// HandleCircEvent processes a parsed "650 CIRC ..." event. Only circuits
// observed BUILT at least once are retained.
func (t *Tracker) HandleCircEvent(rec control.EventRecord) {
	id := rec.Field(0)
	status := rec.Field(1)
	if id == "" || CircuitStatus(status) != CircuitBuilt {
		return
	}

	path := parseCircuitPath(rec.Field(2))

	t.mu.Lock()
	t.circuits[id] = CircuitRecord{CircuitID: id, Status: CircuitBuilt, Path: path}
	t.mu.Unlock()
}

// HandleStreamEvent processes a parsed "650 STREAM ..." event. On the
// first SENTCONNECT for a circuit, it binds the stream's target domain to
// that circuit and resolves its three hops.
func (t *Tracker) HandleStreamEvent(rec control.EventRecord) {
	status := rec.Field(1)
	if StreamStatus(status) != StreamSentConnect {
		return
	}

	circID := rec.Field(2)
	target := rec.Field(3)
	if circID == "" || target == "" {
		return
	}
	domain := targetDomain(target)
	if domain == "" {
		return
	}

	t.mu.Lock()
	_, alreadyBound := t.circuitDomain[circID]
	t.mu.Unlock()
	if alreadyBound {
		return
	}

	// singleflight.Do, not singleflight.DoChan: the read loop that calls
	// HandleStreamEvent is the only consumer and must not be blocked
	// waiting on a GETINFO round trip, but since this is the same
	// goroutine driving the connection's command pipeline, a blocking
	// Do here would deadlock against the very reply it's waiting for.
	// Resolution runs on a separate goroutine instead, guarded by the
	// singleflight key so duplicate concurrent SENTCONNECTs for the same
	// circuit collapse into one batch.
	go func() {
		_, _, _ = t.inflight.Do(circID, func() (interface{}, error) {
			t.resolveAndAssign(circID, domain)
			return nil, nil
		})
	}()
}

func (t *Tracker) resolveAndAssign(circID, domain string) {
	t.mu.Lock()
	if _, bound := t.circuitDomain[circID]; bound {
		t.mu.Unlock()
		return
	}
	circuit, ok := t.circuits[circID]
	t.mu.Unlock()

	if !ok {
		// LogicSkip: stream observed before the circuit's
		// BUILT event. No retry is specified.
		t.logger.Debug("stream references unknown circuit, skipping", "circuit_id", circID)
		return
	}
	if len(circuit.Path) < 3 {
		t.logger.Debug("circuit path has fewer than three hops, skipping", "circuit_id", circID, "hops", len(circuit.Path))
		return
	}

	t.mu.Lock()
	t.circuitDomain[circID] = domain
	t.mu.Unlock()

	nodes, err := t.resolveNodes(circuit.Path[:3])
	if err != nil {
		t.logger.Warn("resolve node info failed", "circuit_id", circID, "domain", domain, "error", err)
		return
	}

	t.mu.Lock()
	_, already := t.domainNodes[domain]
	if !already {
		t.domainNodes[domain] = nodes
	}
	cb := t.onNodesChanged
	t.mu.Unlock()

	if !already && cb != nil {
		cb(domain, nodes)
	}
}

// DomainNodes returns the resolved relays for domain, if any.
func (t *Tracker) DomainNodes(domain string) ([3]NodeInfo, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	nodes, ok := t.domainNodes[domain]
	return nodes, ok
}

// Circuit returns the retained record for id, if any.
func (t *Tracker) Circuit(id string) (CircuitRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.circuits[id]
	return c, ok
}

// targetDomain extracts the domain portion of a "host:port" target.
func targetDomain(target string) string {
	if i := strings.IndexByte(target, ':'); i >= 0 {
		return target[:i]
	}
	return target
}

// parseCircuitPath parses a CIRC event's comma-separated path field, each
// hop shaped "$FINGERPRINT~Nickname" or bare "$FINGERPRINT", into an
// ordered list of fingerprints.
func parseCircuitPath(raw string) []string {
	if raw == "" {
		return nil
	}
	hops := strings.Split(raw, ",")
	fps := make([]string, 0, len(hops))
	for _, hop := range hops {
		hop = strings.TrimPrefix(hop, "$")
		if i := strings.IndexByte(hop, '~'); i >= 0 {
			hop = hop[:i]
		}
		if hop != "" {
			fps = append(fps, hop)
		}
	}
	return fps
}
