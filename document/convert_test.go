package document

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	data := []byte(`{"Version": "15.0", "Source": {"$type": "TfsTeamProjectConfig", "Collection": "http://x"}, "Processors": [{"$type": "A"}, 1, true, null]}`)

	node, err := Decode(data)
	require.NoError(t, err)

	root, ok := node.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"Version", "Source", "Processors"}, root.Keys())

	source, found, err := Lookup(root, "Source")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"$type", "Collection"}, source.(*Object).Keys())

	processors, _ := root.Get("Processors")
	arr, ok := processors.(*Array)
	require.True(t, ok)
	require.Equal(t, 4, arr.Len())
	assert.Equal(t, int64(1), arr.At(1).(*Scalar).Value())
	assert.Equal(t, true, arr.At(2).(*Scalar).Value())
	assert.True(t, arr.At(3).(*Scalar).IsNull())
}

func TestDecode_YAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
MigrationTools:
  Version: "16.0"
  Processors:
    - $type: TfsWorkItemMigrationProcessor
      Enabled: true
`)

	node, err := Decode(data)
	require.NoError(t, err)

	value, found, err := Lookup(node.(*Object), "MigrationTools:Version")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "16.0", value.(*Scalar).Value())
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	node, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, KindScalar, node.Kind())
	assert.True(t, node.(*Scalar).IsNull())
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{"ChangeSetMappingFile": "map.csv"`))
	require.Error(t, err)
}

func TestDecodeJSON_PreservesKeyOrderAndNumbers(t *testing.T) {
	t.Parallel()

	data := []byte(`{"Version": "15.0", "Limit": 1e3, "Ratio": 1.0, "Items": [{"$type": "A"}, 7, false, null]}`)

	node, err := DecodeJSON(data)
	require.NoError(t, err)

	root, ok := node.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"Version", "Limit", "Ratio", "Items"}, root.Keys())

	limit, _ := root.Get("Limit")
	assert.Equal(t, json.Number("1e3"), limit.(*Scalar).Value())

	items, _ := root.Get("Items")
	arr, ok := items.(*Array)
	require.True(t, ok)
	require.Equal(t, 4, arr.Len())
	assert.Equal(t, []string{"$type"}, arr.At(0).(*Object).Keys())
	assert.Equal(t, false, arr.At(2).(*Scalar).Value())
	assert.True(t, arr.At(3).(*Scalar).IsNull())

	encoded, err := EncodeJSON(root)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"Limit": 1e3,`)
	assert.Contains(t, string(encoded), `"Ratio": 1.0,`)
}

func TestDecodeJSON_Empty(t *testing.T) {
	t.Parallel()

	node, err := DecodeJSON([]byte(" \n\t"))
	require.NoError(t, err)
	assert.True(t, node.(*Scalar).IsNull())
}

func TestDecodeJSON_RejectsNonJSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{name: "trailing comma in object", data: `{"a": 1,}`},
		{name: "trailing comma in array", data: `{"a": [1, 2,]}`},
		{name: "single quoted string", data: `{'a': 1}`},
		{name: "unquoted key", data: `{a: "b"}`},
		{name: "yaml boolean", data: `{"a": yes}`},
		{name: "hex number", data: `{"a": 0x10}`},
		{name: "yaml null", data: `~`},
		{name: "yaml mapping", data: "a: b\n"},
		{name: "truncated", data: `{"a": `},
		{name: "two values", data: `{"a": 1} {"b": 2}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeJSON([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestToMapSlice_ConvertsJSONNumbers(t *testing.T) {
	t.Parallel()

	root := NewObject()
	root.Set("Count", NewScalar(json.Number("12")))
	root.Set("Ratio", NewScalar(json.Number("0.5")))

	out, ok := ToMapSlice(root).(yaml.MapSlice)
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, int64(12), out[0].Value)
	assert.InDelta(t, 0.5, out[1].Value, 0.00001)
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	root := NewObject()
	root.Set("z", NewScalar("a&b<c>"))
	root.Set("a", NewArray(NewScalar(1), NewScalar(2.5), Null()))
	inner := NewObject()
	inner.Set("flag", NewScalar(false))
	root.Set("m", inner)

	data, err := EncodeJSON(root)
	require.NoError(t, err)

	expected := "{\n" +
		"  \"z\": \"a&b<c>\",\n" +
		"  \"a\": [\n" +
		"    1,\n" +
		"    2.5,\n" +
		"    null\n" +
		"  ],\n" +
		"  \"m\": {\n" +
		"    \"flag\": false\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, expected, string(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, Equal(root, decoded))
	assert.Equal(t, []string{"z", "a", "m"}, decoded.(*Object).Keys())
}

func TestMarshal_StructUsesJSONTagsInDeclarationOrder(t *testing.T) {
	t.Parallel()

	value := struct {
		Zeta  string         `json:"Zeta"`
		Alpha int            `json:"Alpha"`
		Skip  string         `json:"-"`
		Maps  map[string]any `json:"Maps,omitempty"`
	}{Zeta: "z", Alpha: 1, Skip: "hidden"}

	node, err := Marshal(value)
	require.NoError(t, err)

	obj := node.(*Object)
	assert.Equal(t, []string{"Zeta", "Alpha"}, obj.Keys())
}

func TestFromValue_MapSortedAndUnsupported(t *testing.T) {
	t.Parallel()

	node, err := FromValue(map[string]any{"b": 1, "a": []any{"x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, node.(*Object).Keys())

	_, err = FromValue(struct{}{})
	require.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestInterface(t *testing.T) {
	t.Parallel()

	root := NewObject()
	root.Set("list", NewArray(NewScalar("a")))
	root.Set("n", NewScalar(2))

	assert.Equal(t, map[string]any{"list": []any{"a"}, "n": int64(2)}, Interface(root))
}
