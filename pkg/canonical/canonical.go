// Package canonical rewrites decoded JSON trees into a comparison-stable form
// and serialises them so that semantically equal trees are byte-identical.
package canonical

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

const (
	GUIDPlaceholder = "<GUID>"
	HostPlaceholder = "<ENV_HOST>"
)

// DefaultIgnoreKeys are volatile flow definition keys that differ between
// environments without reflecting a configuration change.
var DefaultIgnoreKeys = []string{
	"connectionReferences",
	"runtimeConfiguration",
	"lastModified",
	"createdTime",
	"modifiedTime",
	"etag",
	"trackedProperties",
	"workflowid",
	"flowid",
}

var (
	guidPattern     = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	idSuffixPattern = regexp.MustCompile(`[iI]d$`)
)

// codec sorts object keys, leaves <, > and & alone and keeps numbers as written.
var codec = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// Canonicalizer is safe for concurrent use.
type Canonicalizer struct {
	ignore map[string]struct{}
}

// New returns a Canonicalizer ignoring DefaultIgnoreKeys plus any extra keys.
func New(extraIgnoreKeys ...string) *Canonicalizer {
	keys := make([]string, 0, len(DefaultIgnoreKeys)+len(extraIgnoreKeys))
	keys = append(keys, DefaultIgnoreKeys...)
	keys = append(keys, extraIgnoreKeys...)
	return NewWithIgnoreKeys(keys)
}

// NewWithIgnoreKeys uses exactly the given ignore set, without the defaults.
func NewWithIgnoreKeys(ignoreKeys []string) *Canonicalizer {
	ignore := make(map[string]struct{}, len(ignoreKeys))
	for _, k := range ignoreKeys {
		k = strings.TrimSpace(k)
		if k != "" {
			ignore[k] = struct{}{}
		}
	}
	return &Canonicalizer{ignore: ignore}
}

// IgnoreKeys returns the explicit ignore set in no particular order.
func (c *Canonicalizer) IgnoreKeys() []string {
	keys := make([]string, 0, len(c.ignore))
	for k := range c.ignore {
		keys = append(keys, k)
	}
	return keys
}

// ShouldIgnore reports whether an object key is dropped: it is in the ignore
// set, ends in "id" or "Id", or starts with "connection" in any case.
func (c *Canonicalizer) ShouldIgnore(key string) bool {
	if _, ok := c.ignore[key]; ok {
		return true
	}
	if idSuffixPattern.MatchString(key) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(key), "connection")
}

// MaskString replaces GUIDs, then every occurrence of envHost.
func MaskString(s, envHost string) string {
	s = guidPattern.ReplaceAllLiteralString(s, GUIDPlaceholder)
	if envHost != "" {
		s = strings.ReplaceAll(s, envHost, HostPlaceholder)
	}
	return s
}

// Normalize returns a rewritten copy of tree with ignored keys removed and
// strings masked. Arrays keep their order. The input is not modified.
func (c *Canonicalizer) Normalize(tree any, envHost string) (any, error) {
	return c.normalize(tree, envHost, "$")
}

func (c *Canonicalizer) normalize(v any, envHost, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if c.ShouldIgnore(k) {
				continue
			}
			nv, err := c.normalize(child, envHost, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			nv, err := c.normalize(child, envHost, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case string:
		return MaskString(t, envHost), nil
	case nil, bool, json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, *big.Int:
		return t, nil
	default:
		return nil, &UnsupportedValueError{Path: path, Value: v}
	}
}

// Canonicalize normalises tree and serialises it compactly with sorted keys.
func (c *Canonicalizer) Canonicalize(tree any, envHost string) (string, error) {
	normalized, err := c.Normalize(tree, envHost)
	if err != nil {
		return "", err
	}
	return Marshal(normalized)
}

// Marshal serialises v with sorted object keys and no insignificant whitespace.
func Marshal(v any) (string, error) {
	b, err := codec.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical marshal: %w", err)
	}
	return string(b), nil
}

// Unmarshal decodes JSON text into a generic tree, keeping numbers as json.Number.
func Unmarshal(s string) (any, error) {
	var v any
	if err := codec.UnmarshalFromString(s, &v); err != nil {
		return nil, err
	}
	return v, nil
}

type UnsupportedValueError struct {
	Path  string
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("value of type %T at %s is not JSON-compatible", e.Value, e.Path)
}
