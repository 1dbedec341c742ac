package domain

import "strings"

// FlowRecord is a cloud flow as returned by a flow source. RawDefinition is the
// flow's clientdata: a JSON-encoded string, an already-decoded tree, or nil.
type FlowRecord struct {
	FlowID        string
	Name          string
	RawDefinition any
}

// Environment identifies one side of a comparison.
type Environment struct {
	// Label is a display name such as "source" or "target".
	Label string
	URL   string
	// File is only consulted by file-backed flow sources.
	File string
}

// Host is the URL with its scheme stripped, cut at the first '/'.
func (e Environment) Host() string {
	return HostFromURL(e.URL)
}

func HostFromURL(url string) string {
	host := url
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

// Snapshot is the per-environment result of parsing, canonicalising and hashing
// one flow. Either CanonicalJSON and Hash are set, or Error is.
type Snapshot struct {
	FlowID          string `json:"flow_id" yaml:"flow_id"`
	Name            string `json:"name" yaml:"name"`
	EnvironmentHost string `json:"environment_host" yaml:"environment_host"`
	CanonicalJSON   string `json:"canonical_json,omitempty" yaml:"canonical_json,omitempty"`
	Hash            string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (s Snapshot) Failed() bool {
	return s.Error != ""
}
