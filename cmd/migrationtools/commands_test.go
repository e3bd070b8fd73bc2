package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjohnsen/azure-devops-migration-tools/catalog"
	yamlparser "github.com/jjohnsen/azure-devops-migration-tools/config/parser/yaml"
	"github.com/jjohnsen/azure-devops-migration-tools/document"
	"github.com/jjohnsen/azure-devops-migration-tools/options"
)

const quietSettings = `{"Logging": {"Level": "error"}}`

const v1Config = `{
  "Version": "15.0",
  "ChangeSetMappingFile": "map.csv",
  "Source": {"$type": "TfsTeamProjectConfig", "Collection": "http://x", "Project": "Alpha", "LanguageMaps": {"AreaPath": "Area", "IterationPath": "Iteration"}},
  "Processors": []
}`

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

type workspace struct {
	dir      string
	settings string
	config   string
}

func newWorkspace(t *testing.T, configName, configContent string) workspace {
	t.Helper()

	dir := t.TempDir()
	ws := workspace{
		dir:      dir,
		settings: filepath.Join(dir, "appsettings.json"),
		config:   filepath.Join(dir, configName),
	}

	require.NoError(t, os.WriteFile(ws.settings, []byte(quietSettings), 0o600))

	if configContent != "" {
		require.NoError(t, os.WriteFile(ws.config, []byte(configContent), 0o600))
	}

	return ws
}

func (ws workspace) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr syncBuffer

	args = append(args, "--settings", ws.settings, "--config", ws.config)
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func (ws workspace) read(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(ws.config)
	require.NoError(t, err)

	return data
}

func (ws workspace) document(t *testing.T) *document.Object {
	t.Helper()

	root, err := yamlparser.NewParser().ParseDocument(ws.read(t))
	require.NoError(t, err)

	return root
}

func textAt(t *testing.T, root *document.Object, path string) string {
	t.Helper()

	node, found, err := document.Lookup(root, path)
	require.NoError(t, err)
	require.True(t, found, path)

	scalar, ok := node.(*document.Scalar)
	require.True(t, ok, path)

	text, ok := scalar.Text()
	require.True(t, ok, path)

	return text
}

func TestUpgrade_V1Document(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", v1Config)

	code, _, stderr := ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)

	root := ws.document(t)

	assert.Equal(t, []string{"Processors", "MigrationTools"}, root.Keys())
	assert.Equal(t, "16.0", textAt(t, root, catalog.VersionPath))
	assert.Equal(t, catalog.TfsTeamProjectEndpointName, textAt(t, root, "MigrationTools:Endpoints:Source:$type"))
	assert.Equal(t, "http://x", textAt(t, root, "MigrationTools:Endpoints:Source:Collection"))

	tool, found, err := options.LoadItem[catalog.TfsChangeSetMappingToolOptions](root)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "map.csv", tool.ChangeSetMappingFile)

	endpoint, err := options.LoadAt[catalog.TfsTeamProjectEndpoint](root, "MigrationTools:Endpoints:Source")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", endpoint.Project)
	require.NotNil(t, endpoint.LanguageMaps)
	assert.Equal(t, "Area", endpoint.LanguageMaps.AreaPath)

	assert.True(t, strings.HasSuffix(string(ws.read(t)), "}\n"))
}

func TestUpgrade_FailuresLeaveFileUntouched(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		args    []string
	}{
		{name: "malformed document", content: `{"Version": `},
		{name: "json trailing comma", content: `{"Version": "15.0", "ChangeSetMappingFile": "map.csv",}`},
		{name: "json single quotes", content: `{"Version": "15.0", "ChangeSetMappingFile": 'map.csv', "Limit": 1e3,}`},
		{name: "yaml in json file", content: "Version: \"15.0\"\nChangeSetMappingFile: map.csv\n"},
		{name: "unsupported schema", content: `{"Profile": {"Name": "x"}}`},
		{name: "scalar root section", content: `{"MigrationTools": "16.0"}`},
		{name: "unknown option type", content: `{"Version": "15.0", "Source": {"$type": "AzureDevOpsPipelineEndpoint"}}`},
		{name: "endpoint without type", content: `{"Version": "15.0", "Target": {"Project": "Beta"}}`},
		{name: "endpoint not an object", content: `{"Version": "15.0", "Source": "http://x"}`},
		{
			name:    "strict unknown field",
			content: `{"Version": "15.0", "Source": {"$type": "TfsTeamProjectConfig", "Collection": "http://x", "Unexpected": true}}`,
			args:    []string{"--strict"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ws := newWorkspace(t, "configuration.json", tc.content)

			code, _, stderr := ws.run(t, append([]string{"upgrade"}, tc.args...)...)

			assert.Equal(t, 1, code)
			assert.Equal(t, tc.content, string(ws.read(t)), "file must stay byte-identical")
			assert.Contains(t, stderr, "Error:")

			entries, err := os.ReadDir(ws.dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2, "no temporary files may be left behind")
		})
	}
}

func TestUpgrade_PreservesJSONNumbers(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json",
		`{"Version": "15.0", "ChangeSetMappingFile": "map.csv", "Limits": {"Items": 1e3, "Ratio": 1.0, "Count": 42}}`)

	code, _, stderr := ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)

	written := string(ws.read(t))
	assert.Contains(t, written, `"Items": 1e3,`)
	assert.Contains(t, written, `"Ratio": 1.0,`)
	assert.Contains(t, written, `"Count": 42`)
	assert.Contains(t, written, `"MigrationTools": {`)
}

func TestUpgrade_LenientIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	content := `{"Version": "15.0", "Source": {"$type": "TfsTeamProjectConfig", "Collection": "http://x", "Unexpected": true}}`
	ws := newWorkspace(t, "configuration.json", content)

	code, _, stderr := ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)

	root := ws.document(t)
	_, found, err := document.Lookup(root, "MigrationTools:Endpoints:Source:Unexpected")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpgrade_DryRun(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", v1Config)

	code, stdout, stderr := ws.run(t, "upgrade", "--dry-run")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, v1Config, string(ws.read(t)))
	assert.Contains(t, stdout, `"Version": "16.0"`)
	assert.Contains(t, stdout, `"$type": "TfsChangeSetMappingToolOptions"`)
}

func TestUpgrade_CurrentDocumentUnchanged(t *testing.T) {
	t.Parallel()

	content := `{"MigrationTools": {"Version": "16.0", "Endpoints": {}}}`
	ws := newWorkspace(t, "configuration.json", content)

	code, _, stderr := ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, content, string(ws.read(t)))
}

func TestUpgrade_YAMLConfiguration(t *testing.T) {
	t.Parallel()

	content := "Version: \"15.0\"\nTarget:\n  $type: TfsTeamProjectConfig\n  Project: Beta\n"
	ws := newWorkspace(t, "configuration.yaml", content)

	code, _, stderr := ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)

	data := string(ws.read(t))
	assert.False(t, strings.HasPrefix(data, "{"), "yaml files are written back as yaml")

	root := ws.document(t)
	assert.Equal(t, "Beta", textAt(t, root, "MigrationTools:Endpoints:Target:Project"))
}

func TestUpgrade_SettingsLayer(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", `{"Version": "15.0"}`)

	settings := `{"Logging": {"Level": "error"}, "Target": {"$type": "TfsTeamProjectConfig", "Project": "FromSettings"}}`
	require.NoError(t, os.WriteFile(ws.settings, []byte(settings), 0o600))

	code, _, stderr := ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)

	root := ws.document(t)
	assert.Equal(t, "FromSettings", textAt(t, root, "MigrationTools:Endpoints:Target:Project"))

	_, found := root.Get("Logging")
	assert.False(t, found, "settings that are not migrated stay out of the configuration file")
}

func TestUpgrade_MissingSettings(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", v1Config)
	require.NoError(t, os.Remove(ws.settings))

	code, _, stderr := ws.run(t, "upgrade")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "startup failed")
	assert.Equal(t, v1Config, string(ws.read(t)))
}

func TestInit(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", "")

	code, _, stderr := ws.run(t, "init")
	require.Equal(t, 0, code, stderr)

	written := ws.read(t)
	root := ws.document(t)

	assert.Equal(t, []string{"Version", "Endpoints", "CommonTools", "Processors"}, mustObject(t, root, "MigrationTools").Keys())

	source, err := options.LoadAt[catalog.TfsTeamProjectEndpoint](root, "MigrationTools:Endpoints:Source")
	require.NoError(t, err)
	assert.Equal(t, "SourceProject", source.Project)

	processor, found, err := options.LoadItem[catalog.TfsWorkItemMigrationProcessor](root, options.Strict())
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, processor.Enabled)
	assert.Equal(t, catalog.SourceEndpoint, processor.SourceName)
	assert.Equal(t, starterQuery, processor.WIQLQuery)

	code, _, _ = ws.run(t, "init")
	assert.Equal(t, 1, code, "existing files are never overwritten")

	code, _, stderr = ws.run(t, "upgrade")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, written, ws.read(t), "a starter file is already current")
}

func TestInit_DryRun(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.yml", "")

	code, stdout, stderr := ws.run(t, "init", "--dry-run")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "TfsWorkItemMigrationProcessor")
	_, err := os.Stat(ws.config)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTypes(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", "")

	code, stdout, stderr := ws.run(t, "types")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, catalog.TfsWorkItemMigrationProcessorName)
	assert.Contains(t, stdout, "MigrationTools:Processors[]")
	assert.Contains(t, stdout, "MigrationTools:Endpoints:#KEY#")
	assert.Contains(t, stdout, catalog.LegacyWorkItemMigrationContext)
	assert.Contains(t, stdout, catalog.LegacyTfsTeamProjectConfig)
}

func TestRun_UnexpectedArguments(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "configuration.json", v1Config)

	code, _, stderr := ws.run(t, "upgrade", "extra")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unexpected arguments")
	assert.Equal(t, v1Config, string(ws.read(t)))
}

func mustObject(t *testing.T, root *document.Object, path string) *document.Object {
	t.Helper()

	node, found, err := document.Lookup(root, path)
	require.NoError(t, err)
	require.True(t, found)

	obj, ok := node.(*document.Object)
	require.True(t, ok)

	return obj
}
