package reload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/exportctl/pkg/exports"
)

func TestExportfsTrigger(t *testing.T) {
	ctx := context.Background()

	t.Run("SucceedsOnZeroExit", func(t *testing.T) {
		trigger := NewExportfsTrigger(ExportfsConfig{Command: "true", Args: []string{"-a"}})
		assert.NoError(t, trigger.Reload(ctx))
	})

	t.Run("NonZeroExitReturnsReloadFailed", func(t *testing.T) {
		trigger := NewExportfsTrigger(ExportfsConfig{Command: "false", Args: []string{"-a"}})
		assert.ErrorIs(t, trigger.Reload(ctx), exports.ErrReloadFailed)
	})

	t.Run("MissingCommandReturnsReloadFailed", func(t *testing.T) {
		trigger := NewExportfsTrigger(ExportfsConfig{Command: "/nonexistent/exportfs"})
		assert.ErrorIs(t, trigger.Reload(ctx), exports.ErrReloadFailed)
	})

	t.Run("FailureCarriesCommandOutput", func(t *testing.T) {
		trigger := NewExportfsTrigger(ExportfsConfig{
			Command: "sh",
			Args:    []string{"-c", "echo 'exportfs: /export does not exist' >&2; exit 1"},
		})

		err := trigger.Reload(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/export does not exist")
	})

	t.Run("AppliesDefaults", func(t *testing.T) {
		trigger := NewExportfsTrigger(ExportfsConfig{})
		assert.Equal(t, DefaultExportfsCommand, trigger.command)
		assert.Equal(t, []string{"-a"}, trigger.args)
	})
}

func TestNoopTrigger(t *testing.T) {
	assert.NoError(t, NoopTrigger{}.Reload(context.Background()))
}
