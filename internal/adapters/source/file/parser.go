package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

var json = jsoniter.Config{UseNumber: true}.Froze()

// exportedFlow is one row of a workflows export. ClientData is either the
// JSON-encoded definition string Dataverse stores or an inline tree.
type exportedFlow struct {
	WorkflowID string `json:"workflowid" yaml:"workflowid"`
	Name       string `json:"name" yaml:"name"`
	ClientData any    `json:"clientdata" yaml:"clientdata"`
}

type envelope struct {
	Value []exportedFlow `json:"value" yaml:"value"`
}

type exportParser struct {
	filePath string
	cache    []domain.FlowRecord
	parseErr error
	mutex    sync.RWMutex
	logger   ports.Logger
}

func newExportParser(path string, logger ports.Logger) *exportParser {
	return &exportParser{
		filePath: path,
		logger:   logger.WithFields(map[string]any{"component": "flow_export_parser", "file_path": path}),
	}
}

func (ep *exportParser) parseAndCache(ctx context.Context) ([]domain.FlowRecord, error) {
	ep.mutex.RLock()
	if ep.cache != nil || ep.parseErr != nil {
		defer ep.mutex.RUnlock()
		return ep.cache, ep.parseErr
	}
	ep.mutex.RUnlock()

	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.cache != nil || ep.parseErr != nil {
		return ep.cache, ep.parseErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	raw, err := readExport(ep.filePath)
	if err != nil {
		ep.parseErr = errors.WrapUserFacing(err, errors.CodeSourceReadError,
			fmt.Sprintf("failed to read flow export %s", ep.filePath),
			"Check the source.file/target.file paths.")
		return nil, ep.parseErr
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		ep.parseErr = errors.NewUserFacing(errors.CodeSourceParseError,
			fmt.Sprintf("flow export %s is empty", ep.filePath), "")
		return nil, ep.parseErr
	}

	flows, err := decodeExport(ep.filePath, raw)
	if err != nil {
		ep.parseErr = errors.WrapUserFacing(err, errors.CodeSourceParseError,
			fmt.Sprintf("invalid flow export %s", ep.filePath),
			"Exports must be a list of workflow records or an OData {\"value\": [...]} document.")
		return nil, ep.parseErr
	}

	records := make([]domain.FlowRecord, 0, len(flows))
	for _, f := range flows {
		records = append(records, domain.FlowRecord{FlowID: f.WorkflowID, Name: f.Name, RawDefinition: f.ClientData})
	}
	ep.logger.Debugf(ctx, "Parsed %d flows from export", len(records))
	ep.cache = records
	return ep.cache, nil
}

func readExport(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

func isYAML(path string) bool {
	name := strings.ToLower(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func decodeExport(path string, raw []byte) ([]exportedFlow, error) {
	if isYAML(path) {
		return decodeYAML(raw)
	}
	return decodeJSON(raw)
}

func decodeJSON(raw []byte) ([]exportedFlow, error) {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '[' {
		var flows []exportedFlow
		if err := json.Unmarshal(trimmed, &flows); err != nil {
			return nil, err
		}
		return flows, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if env.Value == nil {
		return nil, fmt.Errorf("object document has no \"value\" array")
	}
	return env.Value, nil
}

func decodeYAML(raw []byte) ([]exportedFlow, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty YAML document")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var flows []exportedFlow
		if err := root.Decode(&flows); err != nil {
			return nil, err
		}
		return flows, nil
	case yaml.MappingNode:
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, err
		}
		if env.Value == nil {
			return nil, fmt.Errorf("mapping document has no \"value\" list")
		}
		return env.Value, nil
	default:
		return nil, fmt.Errorf("unexpected YAML node at document root (line %d)", root.Line)
	}
}
