package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjohnsen/azure-devops-migration-tools/config"
	filefetcher "github.com/jjohnsen/azure-devops-migration-tools/config/fetcher/file"
	yamlparser "github.com/jjohnsen/azure-devops-migration-tools/config/parser/yaml"
	"github.com/jjohnsen/azure-devops-migration-tools/document"
	"github.com/jjohnsen/azure-devops-migration-tools/logging"
)

// StaticDataFetcher implements config.DataFetcher with static data.
// Useful for unit tests that don't need file I/O.
type StaticDataFetcher struct {
	Data []byte
}

// Fetch returns the static data.
func (f *StaticDataFetcher) Fetch() ([]byte, error) {
	return f.Data, nil
}

func ExampleProvider() {
	settings := &config.HostSettings{}

	provider := config.Provider(settings, "")

	fetcher := &StaticDataFetcher{
		Data: []byte(`{"Logging": {"Level": "warn"}}`),
	}

	result, err := provider(yamlparser.NewParser(), fetcher)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("Level: %s, Format: %s, Service: %s\n",
		result.Logging.Level, result.Logging.Format, result.Telemetry.ServiceName)
	// Output: Level: warn, Format: json, Service: migration-tools
}

func ExampleProvider_pathNavigation() {
	data := []byte(`
Logging:
  Level: debug
  Format: text
Telemetry:
  Enabled: false
`)

	provider := config.Provider(&logging.LoggerConfig{}, "Logging")

	result, err := provider(yamlparser.NewParser(), &StaticDataFetcher{Data: data})
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Printf("Level: %s, Format: %s\n", result.Level, result.Format)
	// Output: Level: debug, Format: text
}

func ExampleLoadDocument() {
	dir, err := os.MkdirTemp("", "migration-tools-example")
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "configuration.json")

	err = os.WriteFile(path, []byte(`{"Version": "15.0", "Source": {"$type": "TfsTeamProjectConfig"}}`), 0o600)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fetcher, err := filefetcher.NewOptionalFetcher(path)()
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	root, err := config.LoadDocument(fetcher, yamlparser.NewParser(), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	fmt.Println(root.Keys())
	// Output: [Version Source]
}

func ExampleLayer() {
	parser := yamlparser.NewParser()

	settings, _ := parser.ParseDocument([]byte(`{"Logging": {"Level": "info"}, "Target": {"$type": "TfsTeamProjectConfig"}}`))
	file, _ := parser.ParseDocument([]byte(`{"Logging": {"Level": "debug"}, "Version": "15.0"}`))

	view := config.Layer(settings, file)

	data, _ := document.EncodeJSON(view)
	fmt.Print(string(data))
	// Output:
	// {
	//   "Logging": {
	//     "Level": "debug"
	//   },
	//   "Target": {
	//     "$type": "TfsTeamProjectConfig"
	//   },
	//   "Version": "15.0"
	// }
}

// TestYAMLParser_PathNavigation tests the production parser against a
// migration configuration document.
func TestYAMLParser_PathNavigation(t *testing.T) {
	t.Parallel()

	data := []byte(`
MigrationTools:
  Version: "16.0"
  Endpoints:
    Source:
      EndpointType: TfsTeamProjectEndpoint
      Collection: https://dev.azure.com/source/
      Project: Alpha
`)

	parser := yamlparser.NewParser()

	t.Run("navigate to nested section", func(t *testing.T) {
		t.Parallel()

		var endpoint struct {
			Collection string `yaml:"Collection"`
			Project    string `yaml:"Project"`
		}

		err := parser.Parse(data, &endpoint, "MigrationTools:Endpoints:Source")
		require.NoError(t, err)

		assert.Equal(t, "https://dev.azure.com/source/", endpoint.Collection)
		assert.Equal(t, "Alpha", endpoint.Project)
	})

	t.Run("empty path parses entire document", func(t *testing.T) {
		t.Parallel()

		cfg := make(map[string]any)
		err := parser.Parse(data, &cfg, "")
		require.NoError(t, err)

		assert.Contains(t, cfg, "MigrationTools")
	})

	t.Run("invalid path returns error", func(t *testing.T) {
		t.Parallel()

		var version string
		err := parser.Parse(data, &version, "MigrationTools:Processors")
		require.ErrorIs(t, err, yamlparser.ErrPathNotFound)
	})

	t.Run("path through a scalar returns error", func(t *testing.T) {
		t.Parallel()

		var value string
		err := parser.Parse(data, &value, "MigrationTools:Version:Major")
		require.Error(t, err)
	})
}
