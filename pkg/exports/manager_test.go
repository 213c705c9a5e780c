package exports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helper Functions
// ============================================================================

type fakeTrigger struct {
	calls int
	err   error
}

func (f *fakeTrigger) Reload(context.Context) error {
	f.calls++
	return f.err
}

func newTestManager(t *testing.T, trigger ReloadTrigger) (*Manager, string) {
	t.Helper()
	registryPath := filepath.Join(t.TempDir(), "exports")
	manager := NewManager(ManagerConfig{
		Rewriter:      RewriterConfig{RegistryPath: registryPath},
		SkipPathCheck: true,
	}, trigger)
	return manager, registryPath
}

// ============================================================================
// Apply Tests
// ============================================================================

func TestManagerApply(t *testing.T) {
	ctx := context.Background()

	t.Run("AddComposesOptionsFromRequest", func(t *testing.T) {
		manager, path := newTestManager(t, &fakeTrigger{})

		result, err := manager.Apply(ctx, &Request{
			Action:     ActionAdd,
			Path:       "/export",
			Client:     "10.0.0.1",
			ReadOnly:   true,
			RootSquash: true,
			Security:   "sys",
		})
		require.NoError(t, err)

		assert.True(t, result.Changed)
		assert.Contains(t, readRegistry(t, path), "/export 10.0.0.1(ro,sec=sys)\n")
	})

	t.Run("AddWithoutSquashingAndReadWrite", func(t *testing.T) {
		manager, path := newTestManager(t, &fakeTrigger{})

		_, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   "/export",
			Client: "10.0.0.1",
		})
		require.NoError(t, err)

		assert.Contains(t, readRegistry(t, path), "/export 10.0.0.1(no_root_squash,rw)\n")
	})

	t.Run("RemoveDeletesEntry", func(t *testing.T) {
		manager, path := newTestManager(t, &fakeTrigger{})
		writeRegistry(t, path, "/export 10.0.0.1(rw) host2(ro)\n")

		result, err := manager.Apply(ctx, &Request{
			Action: ActionRemove,
			Path:   "/export",
			Client: "10.0.0.1",
		})
		require.NoError(t, err)

		assert.True(t, result.Changed)
		assert.Equal(t, "/export host2(ro)\n", readRegistry(t, path))
	})

	t.Run("RemoveMissingEntryReturnsNotFound", func(t *testing.T) {
		manager, path := newTestManager(t, &fakeTrigger{})
		writeRegistry(t, path, "/export host2(ro)\n")

		_, err := manager.Apply(ctx, &Request{
			Action: ActionRemove,
			Path:   "/export",
			Client: "10.0.0.1",
		})
		assert.ErrorIs(t, err, ErrExportNotFound)
	})

	t.Run("RejectsInvalidRequests", func(t *testing.T) {
		manager, _ := newTestManager(t, &fakeTrigger{})

		for name, req := range map[string]*Request{
			"MissingAction":   {Path: "/export", Client: "host1"},
			"UnknownAction":   {Action: "rename", Path: "/export", Client: "host1"},
			"MissingClient":   {Action: ActionAdd, Path: "/export"},
			"RelativePath":    {Action: ActionAdd, Path: "export", Client: "host1"},
			"MissingPath":     {Action: ActionRemove, Client: "host1"},
		} {
			_, err := manager.Apply(ctx, req)
			assert.Error(t, err, "request %s should be rejected", name)
		}
	})
}

// ============================================================================
// Path Check Tests
// ============================================================================

func TestManagerPathCheck(t *testing.T) {
	ctx := context.Background()

	newCheckedManager := func(t *testing.T) *Manager {
		t.Helper()
		return NewManager(ManagerConfig{
			Rewriter: RewriterConfig{
				RegistryPath: filepath.Join(t.TempDir(), "exports"),
			},
		}, &fakeTrigger{})
	}

	t.Run("AcceptsExistingDirectory", func(t *testing.T) {
		manager := newCheckedManager(t)
		exported := t.TempDir()

		_, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   exported,
			Client: "host1",
		})
		assert.NoError(t, err)
	})

	t.Run("RejectsMissingPath", func(t *testing.T) {
		manager := newCheckedManager(t)

		_, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   filepath.Join(t.TempDir(), "missing"),
			Client: "host1",
		})
		assert.Error(t, err)
	})

	t.Run("RejectsNonDirectory", func(t *testing.T) {
		manager := newCheckedManager(t)
		file := filepath.Join(t.TempDir(), "plainfile")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   file,
			Client: "host1",
		})
		assert.ErrorContains(t, err, "not a directory")
	})

	t.Run("RemoveNeverChecksThePath", func(t *testing.T) {
		manager := newCheckedManager(t)
		registryPath := manager.rewriter.registryPath
		writeRegistry(t, registryPath, "/gone host1(ro)\n")

		_, err := manager.Apply(ctx, &Request{
			Action: ActionRemove,
			Path:   "/gone",
			Client: "host1",
		})
		assert.NoError(t, err)
	})
}

// ============================================================================
// Reload Trigger Tests
// ============================================================================

func TestManagerReload(t *testing.T) {
	ctx := context.Background()

	t.Run("TriggersReloadWhenRequested", func(t *testing.T) {
		trigger := &fakeTrigger{}
		manager, _ := newTestManager(t, trigger)

		_, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   "/export",
			Client: "host1",
			Reload: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, trigger.calls)
	})

	t.Run("SkipsReloadWhenNotRequested", func(t *testing.T) {
		trigger := &fakeTrigger{}
		manager, _ := newTestManager(t, trigger)

		_, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   "/export",
			Client: "host1",
		})
		require.NoError(t, err)
		assert.Zero(t, trigger.calls)
	})

	t.Run("DryRunNeverReloads", func(t *testing.T) {
		trigger := &fakeTrigger{}
		manager, _ := newTestManager(t, trigger)

		result, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   "/export",
			Client: "host1",
			Reload: true,
			DryRun: true,
		})
		require.NoError(t, err)

		assert.True(t, result.Changed)
		assert.Zero(t, trigger.calls)
	})

	t.Run("ReloadFailureKeepsCommittedRewrite", func(t *testing.T) {
		trigger := &fakeTrigger{err: fmt.Errorf("exportfs: boom: %w", ErrReloadFailed)}
		manager, path := newTestManager(t, trigger)

		result, err := manager.Apply(ctx, &Request{
			Action: ActionAdd,
			Path:   "/export",
			Client: "host1",
			Reload: true,
		})

		assert.ErrorIs(t, err, ErrReloadFailed)
		// The rewrite is committed: the result reports it, and the file
		// has the entry despite the failed reload.
		require.NotNil(t, result)
		assert.True(t, result.Changed)
		assert.Contains(t, readRegistry(t, path), "/export host1(")
	})
}

// ============================================================================
// List Tests
// ============================================================================

func TestManagerList(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsEntriesInFileOrder", func(t *testing.T) {
		manager, path := newTestManager(t, &fakeTrigger{})
		writeRegistry(t, path, "# managed\n/a host1(ro) host2\n\n/b *(rw)\n")

		entries, err := manager.List(ctx)
		require.NoError(t, err)

		require.Len(t, entries, 3)
		assert.Equal(t, Entry{Path: "/a", Client: "host1", Options: "ro"}, entries[0])
		assert.Equal(t, Entry{Path: "/a", Client: "host2", Options: ""}, entries[1])
		assert.Equal(t, Entry{Path: "/b", Client: "*", Options: "rw"}, entries[2])
	})

	t.Run("MissingRegistryReturnsNotFound", func(t *testing.T) {
		manager, _ := newTestManager(t, &fakeTrigger{})

		_, err := manager.List(ctx)
		assert.ErrorIs(t, err, ErrRegistryNotFound)
	})

	t.Run("MalformedRegistryReturnsParseError", func(t *testing.T) {
		manager, path := newTestManager(t, &fakeTrigger{})
		writeRegistry(t, path, "/a host1(ro\n")

		_, err := manager.List(ctx)
		assert.ErrorIs(t, err, ErrMalformedEntry)
	})
}
