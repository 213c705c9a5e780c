package exports

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marmos91/exportctl/internal/logger"
)

// DefaultManagedComment is written when a rewrite would otherwise leave the
// registry with no lines at all, so a freshly cleared registry is never a
// literally empty file.
const DefaultManagedComment = "# NFS exports managed by exportctl"

// RewriterConfig configures a Rewriter. The zero value is not usable:
// RegistryPath is required; the other fields default sensibly.
type RewriterConfig struct {
	// RegistryPath is the exports registry file to manage (e.g. /etc/exports).
	RegistryPath string

	// LockPath is the sidecar lock file serializing writers. Defaults to
	// RegistryPath + ".lock".
	LockPath string

	// NonBlockingLock makes lock acquisition fail immediately with
	// ErrLockBusy instead of waiting for the current holder.
	NonBlockingLock bool

	// ManagedComment overrides DefaultManagedComment.
	ManagedComment string
}

// Rewriter performs transactional rewrites of the exports registry.
//
// Every operation is a full read-modify-atomically-replace cycle: the
// current registry streams through the parser and matcher into a temp file
// in the same directory, which then renames over the registry. Readers see
// either the complete old content or the complete new content, never a
// partial write. The sidecar lock is held across the entire cycle, so two
// concurrent rewriters cannot both read the same pre-image and silently
// lose one of the updates.
type Rewriter struct {
	registryPath   string
	lockPath       string
	nonBlocking    bool
	managedComment string
}

// NewRewriter creates a Rewriter from the given configuration.
func NewRewriter(cfg RewriterConfig) *Rewriter {
	lockPath := cfg.LockPath
	if lockPath == "" {
		lockPath = cfg.RegistryPath + ".lock"
	}
	comment := cfg.ManagedComment
	if comment == "" {
		comment = DefaultManagedComment
	}

	return &Rewriter{
		registryPath:   cfg.RegistryPath,
		lockPath:       lockPath,
		nonBlocking:    cfg.NonBlockingLock,
		managedComment: comment,
	}
}

// RewriteOp describes one registry operation.
type RewriteOp struct {
	// Path and Client identify the target entry. Matching is exact on the
	// path and case-insensitive on the client.
	Path   string
	Client string

	// Options is the composed option string for an add, or nil for a
	// remove. nil is deliberately distinct from the empty string: an empty
	// string still appends an entry (a bare client with no option group),
	// while nil appends nothing and requires a matching entry to remove.
	Options *string

	// ClearAll drops every existing entry line before applying the
	// operation. Combined with an add this atomically replaces the whole
	// registry with a single entry. Comment and blank lines survive.
	ClearAll bool

	// DryRun computes the outcome without touching the filesystem.
	DryRun bool
}

// Add rewrites the registry so that (path, client) maps to exactly the given
// options: any existing entry for the pair is removed and one new entry is
// appended. Returns whether the registry content changed.
func (r *Rewriter) Add(ctx context.Context, path, client, options string, clearAll bool) (bool, error) {
	return r.Rewrite(ctx, RewriteOp{Path: path, Client: client, Options: &options, ClearAll: clearAll})
}

// Remove rewrites the registry with every entry for (path, client) removed.
// Returns ErrExportNotFound if no entry matched (unless clearAll, where the
// target pair is irrelevant).
func (r *Rewriter) Remove(ctx context.Context, path, client string, clearAll bool) (bool, error) {
	return r.Rewrite(ctx, RewriteOp{Path: path, Client: client, ClearAll: clearAll})
}

// Rewrite applies one operation to the registry.
//
// The reported bool is true iff the resulting content differs byte-for-byte
// from the previous content (a missing registry compares as empty). On any
// failure the temp file is deleted and the registry is left exactly as it
// was; only a successful rename commits.
func (r *Rewriter) Rewrite(ctx context.Context, op RewriteOp) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if op.DryRun {
		old, err := r.readCurrent()
		if err != nil {
			return false, err
		}
		updated, err := r.buildContent(old, op)
		if err != nil {
			return false, err
		}
		return !bytes.Equal(old, updated), nil
	}

	lock := NewFileLock(r.lockPath)
	if err := r.acquire(lock); err != nil {
		return false, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release registry lock: %v", err)
		}
	}()

	src, created, err := openRegistry(r.registryPath, true)
	if err != nil {
		return false, err
	}
	defer func() { _ = src.Close() }()

	if created {
		logger.Debug("created empty exports registry %s", r.registryPath)
	}

	old, err := io.ReadAll(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", r.registryPath, err)
	}

	// The temp file must live in the registry's directory: the final
	// rename is only atomic within one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(r.registryPath), filepath.Base(r.registryPath)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	discard := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	updated, err := r.buildContent(old, op)
	if err != nil {
		discard()
		return false, err
	}

	if _, err := tmp.Write(updated); err != nil {
		discard()
		return false, fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		discard()
		return false, fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, r.registryPath); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("rename %s over %s: %w", tmpPath, r.registryPath, err)
	}

	changed := !bytes.Equal(old, updated)
	logger.Info("rewrote %s (changed=%t)", r.registryPath, changed)

	return changed, nil
}

// buildContent computes the post-operation registry content. It never
// touches the filesystem, so dry runs and real rewrites share it.
func (r *Rewriter) buildContent(old []byte, op RewriteOp) ([]byte, error) {
	var out bytes.Buffer
	kept := 0
	removed := false

	scanner := bufio.NewScanner(bytes.NewReader(old))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Comment and blank lines pass through untouched, even under
		// ClearAll.
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out.WriteString(line)
			out.WriteByte('\n')
			kept++
			continue
		}

		if op.ClearAll {
			continue
		}

		entries, err := ParseLine(line)
		if err != nil {
			return nil, err
		}

		if !MatchEntry(entries, op.Path, op.Client) {
			out.WriteString(line)
			out.WriteByte('\n')
			kept++
			continue
		}

		remaining, err := FilterEntries(entries, op.Path, op.Client)
		if err != nil {
			return nil, err
		}
		removed = true

		// Re-serialize what is left of the line; drop it entirely if
		// the removed entry was the only one.
		if len(remaining) > 0 {
			out.WriteString(FormatLine(remaining))
			out.WriteByte('\n')
			kept++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	if op.Options == nil && !op.ClearAll && !removed {
		return nil, fmt.Errorf("no export %s for client %s: %w", op.Path, op.Client, ErrExportNotFound)
	}

	if kept == 0 {
		out.WriteString(r.managedComment)
		out.WriteByte('\n')
	}

	if op.Options != nil {
		out.WriteString(FormatLine([]Entry{{Path: op.Path, Client: op.Client, Options: *op.Options}}))
		out.WriteByte('\n')
	}

	return out.Bytes(), nil
}

func (r *Rewriter) acquire(lock *FileLock) error {
	if r.nonBlocking {
		return lock.TryLock()
	}
	return lock.Lock()
}

// readCurrent returns the registry content without taking the lock; a
// missing registry reads as empty. Used by dry runs, where consistency is
// already guaranteed by the atomic rename on the writer side.
func (r *Rewriter) readCurrent() ([]byte, error) {
	f, _, err := openRegistry(r.registryPath, false)
	if err != nil {
		if errors.Is(err, ErrRegistryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.registryPath, err)
	}
	return data, nil
}
