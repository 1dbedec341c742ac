package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/pkg/canonical"
)

const sampleClientData = `{
  "properties": {
    "connectionReferences": {"shared_commondataserviceforapps": {"connectionName": "shared-commondataser-0f8fad5b-d9cb-469f-a165-70867728950e"}},
    "definition": {
      "actions": {
        "Get_record": {"type": "OpenApiConnection", "inputs": {"host": {"operationId": "GetItem"}, "parameters": {"recordId": "@triggerOutputs()?['body/accountid']"}}},
        "Send_request": {"type": "Http", "inputs": {"method": "POST", "uri": "https://org1.crm.dynamics.com/api/data/v9.2/tasks"}, "runAfter": {"Get_record": ["Succeeded"]}}
      },
      "triggers": {"manual": {"type": "Request"}}
    }
  },
  "schemaVersion": "1.0.0.0"
}`

func TestSnapshotBuilder_Build(t *testing.T) {
	b := NewSnapshotBuilder(nil)

	t.Run("string clientdata", func(t *testing.T) {
		snap := b.Build(domain.FlowRecord{FlowID: "f1", Name: "ApprovalFlow", RawDefinition: sampleClientData}, "org1.crm.dynamics.com")
		require.False(t, snap.Failed(), snap.Error)
		assert.Equal(t, "f1", snap.FlowID)
		assert.Equal(t, "ApprovalFlow", snap.Name)
		assert.Equal(t, "org1.crm.dynamics.com", snap.EnvironmentHost)
		assert.NotContains(t, snap.CanonicalJSON, "connectionReferences")
		assert.NotContains(t, snap.CanonicalJSON, "operationId")
		assert.Contains(t, snap.CanonicalJSON, `"uri":"https://<ENV_HOST>/api/data/v9.2/tasks"`)
		assert.Equal(t, canonical.Hash(snap.CanonicalJSON), snap.Hash)
	})

	t.Run("decoded clientdata matches string clientdata", func(t *testing.T) {
		tree, err := canonical.Unmarshal(sampleClientData)
		require.NoError(t, err)
		fromTree := b.Build(domain.FlowRecord{Name: "x", RawDefinition: tree}, "org1.crm.dynamics.com")
		fromString := b.Build(domain.FlowRecord{Name: "x", RawDefinition: sampleClientData}, "org1.crm.dynamics.com")
		assert.Equal(t, fromString.Hash, fromTree.Hash)
	})

	t.Run("bytes clientdata", func(t *testing.T) {
		snap := b.Build(domain.FlowRecord{Name: "x", RawDefinition: []byte(`{"a":1}`)}, "")
		require.False(t, snap.Failed())
		assert.Equal(t, `{"a":1}`, snap.CanonicalJSON)
	})

	for name, raw := range map[string]any{"nil": nil, "empty string": "", "empty object": map[string]any{}} {
		t.Run("missing "+name, func(t *testing.T) {
			snap := b.Build(domain.FlowRecord{FlowID: "f2", Name: "Broken", RawDefinition: raw}, "h")
			assert.Equal(t, ErrDefinitionMissing, snap.Error)
			assert.Empty(t, snap.CanonicalJSON)
			assert.Empty(t, snap.Hash)
			assert.Equal(t, "f2", snap.FlowID)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		snap := b.Build(domain.FlowRecord{Name: "Bad", RawDefinition: `{"properties":`}, "h")
		assert.True(t, snap.Failed())
		assert.NotEqual(t, ErrDefinitionMissing, snap.Error)
		assert.Empty(t, snap.CanonicalJSON)
		assert.Empty(t, snap.Hash)
	})

	t.Run("non json value", func(t *testing.T) {
		snap := b.Build(domain.FlowRecord{Name: "Odd", RawDefinition: map[string]any{"f": func() {}}}, "h")
		assert.True(t, snap.Failed())
		assert.Contains(t, snap.Error, "$.f")
	})
}

func TestSnapshotBuilder_VolatileFieldsDoNotAffectHash(t *testing.T) {
	b := NewSnapshotBuilder(canonical.New())
	src := `{"properties":{"definition":{"actions":{"A":{"type":"Compose","inputs":"x"}}},"connectionReferences":{"a":1}},"workflowid":"0f8fad5b-d9cb-469f-a165-70867728950e"}`
	tgt := `{"workflowid":"16fd2706-8baf-433b-82eb-8c7fada847da","properties":{"connectionReferences":{"b":2},"definition":{"actions":{"A":{"inputs":"x","type":"Compose"}}}}}`

	a := b.Build(domain.FlowRecord{Name: "F", RawDefinition: src}, "dev.crm.dynamics.com")
	c := b.Build(domain.FlowRecord{Name: "F", RawDefinition: tgt}, "prod.crm.dynamics.com")
	require.False(t, a.Failed())
	require.False(t, c.Failed())
	assert.Equal(t, a.Hash, c.Hash)
}
