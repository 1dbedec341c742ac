package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, err := Unmarshal(s)
	require.NoError(t, err)
	return v
}

func TestShouldIgnore(t *testing.T) {
	c := New()
	tests := []struct {
		key    string
		ignore bool
	}{
		{"connectionReferences", true},
		{"etag", true},
		{"workflowid", true},
		{"flowId", true},
		{"tenantid", true},
		{"Connection", true},
		{"CONNECTIONNAME", true},
		{"connector", false},
		{"actions", false},
		{"inputs", false},
		{"ID", false},
		{"identity", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.ignore, c.ShouldIgnore(tt.key))
		})
	}
}

func TestMaskString(t *testing.T) {
	in := "https://org1.crm.dynamics.com/api/data/v9.2/accounts(0F8FAD5B-D9CB-469F-A165-70867728950E)"
	assert.Equal(t, "https://<ENV_HOST>/api/data/v9.2/accounts(<GUID>)", MaskString(in, "org1.crm.dynamics.com"))
	assert.Equal(t, "plain", MaskString("plain", ""))
}

func TestCanonicalize_StripsSortsAndCompacts(t *testing.T) {
	c := New()
	tree := mustParse(t, `{
		"properties": {
			"connectionReferences": {"shared_cds": {"id": "x"}},
			"definition": {
				"actions": {"Send": {"type": "Http", "inputs": {"uri": "https://org1.crm.dynamics.com/x"}}},
				"$schema": "s"
			},
			"displayName": "Approval <v2> & more"
		},
		"schemaVersion": "1.0.0.0",
		"workflowid": "0f8fad5b-d9cb-469f-a165-70867728950e"
	}`)

	got, err := c.Canonicalize(tree, "org1.crm.dynamics.com")
	require.NoError(t, err)
	assert.Equal(t,
		`{"properties":{"definition":{"$schema":"s","actions":{"Send":{"inputs":{"uri":"https://<ENV_HOST>/x"},"type":"Http"}}},"displayName":"Approval <v2> & more"},"schemaVersion":"1.0.0.0"}`,
		got)
}

func TestCanonicalize_IsFixedPoint(t *testing.T) {
	c := New()
	tree := mustParse(t, `{"b":[3,1,{"z":null,"a":true}],"a":{"uri":"https://host/7c9e6679-7425-40de-944b-e07fc1f90ae7"},"n":1.50}`)

	first, err := c.Canonicalize(tree, "host")
	require.NoError(t, err)
	second, err := c.Canonicalize(mustParse(t, first), "host")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCanonicalize_GUIDAndHostInvariance(t *testing.T) {
	c := New()
	a := mustParse(t, `{"uri":"https://dev.crm.dynamics.com/x/0f8fad5b-d9cb-469f-a165-70867728950e","ref":"7C9E6679-7425-40DE-944B-E07FC1F90AE7"}`)
	b := mustParse(t, `{"uri":"https://prod.crm4.dynamics.com/x/16fd2706-8baf-433b-82eb-8c7fada847da","ref":"e02fd0e4-00fd-090a-ca30-0d00a0038ba0"}`)

	ca, err := c.Canonicalize(a, "dev.crm.dynamics.com")
	require.NoError(t, err)
	cb, err := c.Canonicalize(b, "prod.crm4.dynamics.com")
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
	assert.Equal(t, Hash(ca), Hash(cb))
}

func TestCanonicalize_KeyOrderInvariance(t *testing.T) {
	c := New()
	ca, err := c.Canonicalize(mustParse(t, `{"a":1,"b":{"x":"1","y":[1,2]},"c":null}`), "")
	require.NoError(t, err)
	cb, err := c.Canonicalize(mustParse(t, `{"c":null,"b":{"y":[1,2],"x":"1"},"a":1}`), "")
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
}

func TestCanonicalize_ArrayOrderSensitivity(t *testing.T) {
	c := New()
	ca, err := c.Canonicalize(mustParse(t, `{"steps":["first","second"]}`), "")
	require.NoError(t, err)
	cb, err := c.Canonicalize(mustParse(t, `{"steps":["second","first"]}`), "")
	require.NoError(t, err)
	assert.NotEqual(t, ca, cb)
	assert.NotEqual(t, Hash(ca), Hash(cb))

	same, err := c.Canonicalize(mustParse(t, `{"steps":["x","x"]}`), "")
	require.NoError(t, err)
	again, err := c.Canonicalize(mustParse(t, `{"steps":["x","x"]}`), "")
	require.NoError(t, err)
	assert.Equal(t, same, again)
}

func TestCanonicalize_ExtraIgnoreKeys(t *testing.T) {
	c := New("description")
	got, err := c.Canonicalize(map[string]any{"description": "d", "name": "n"}, "")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n"}`, got)

	only := NewWithIgnoreKeys([]string{"name"})
	got, err = only.Canonicalize(map[string]any{"etag": "e", "name": "n"}, "")
	require.NoError(t, err)
	assert.Equal(t, `{"etag":"e"}`, got)
}

func TestCanonicalize_ScalarsPassThrough(t *testing.T) {
	c := New()
	got, err := c.Canonicalize(map[string]any{"i": 3, "f": 2.5, "b": false, "n": nil}, "")
	require.NoError(t, err)
	assert.Equal(t, `{"b":false,"f":2.5,"i":3,"n":null}`, got)
}

func TestCanonicalize_RejectsNonJSONValues(t *testing.T) {
	c := New()
	_, err := c.Canonicalize(map[string]any{"actions": map[string]any{"x": make(chan int)}}, "")
	require.Error(t, err)

	var unsupported *UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "$.actions.x", unsupported.Path)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	c := New()
	in := map[string]any{"etag": "1", "s": "0f8fad5b-d9cb-469f-a165-70867728950e"}
	_, err := c.Normalize(in, "")
	require.NoError(t, err)
	assert.Equal(t, "1", in["etag"])
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", in["s"])
}

func TestHash(t *testing.T) {
	h := Hash(`{"a":1}`)
	assert.Len(t, h, 64)
	assert.Equal(t, h, Hash(`{"a":1}`))
	assert.NotEqual(t, h, Hash(`{"a":2}`))
	// sha256 of the empty string
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(""))
}
