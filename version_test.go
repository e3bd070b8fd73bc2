package migrationtools_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	migrationtools "github.com/jjohnsen/azure-devops-migration-tools"
)

func TestVersion_DefaultValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dev", migrationtools.Version)
	require.Equal(t, "unknown", migrationtools.CompiledAt)
}
