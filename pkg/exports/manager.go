package exports

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/exportctl/internal/logger"
)

// validate checks Request structs before they reach the rewriter
var validate = validator.New()

// Action selects what an export request does.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Request carries one export operation, mirroring the flags a caller can
// set. Option-related fields are only consulted for ActionAdd.
type Request struct {
	// Action selects add or remove.
	Action Action `validate:"required,oneof=add remove"`

	// Path is the exported filesystem path.
	Path string `validate:"required,startswith=/"`

	// Client is the host, IP, net range, or wildcard admitted by the
	// entry. Treated as an opaque, case-insensitively compared string;
	// see exports(5) for the full syntax.
	Client string `validate:"required"`

	// ReadOnly exports the path read-only ("ro") instead of "rw".
	ReadOnly bool

	// RootSquash maps requests from uid/gid 0 to the anonymous identity.
	RootSquash bool

	// AllSquash maps all requests to the anonymous identity.
	AllSquash bool

	// Security is a colon-delimited list of security flavors (sys, krb5,
	// krb5i, krb5p) to negotiate. Empty omits the sec= option.
	Security string

	// ExtraOptions carries any additional comma-separated options not
	// covered by the fields above.
	ExtraOptions string

	// ClearAll discards every existing entry before applying the action.
	ClearAll bool

	// Reload triggers the export service reload after a committed rewrite.
	Reload bool

	// DryRun reports what would change without touching the registry.
	DryRun bool
}

// Result reports the outcome of a request.
type Result struct {
	// Changed is true iff the registry content differs from before the
	// operation (always false-or-true computed, even for dry runs).
	Changed bool

	// Message is a short human-readable summary.
	Message string
}

// ReloadTrigger asks the running export service to adopt the current
// registry contents. Implementations live in pkg/reload.
type ReloadTrigger interface {
	Reload(ctx context.Context) error
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Rewriter configures the underlying transactional rewriter.
	Rewriter RewriterConfig

	// SkipPathCheck disables the requirement that an added path must
	// exist and be a directory on the local system. Useful when managing
	// a registry for a different root or in tests.
	SkipPathCheck bool

	// MergeExtraOptions parses and merges free-form extra options into
	// the composed option set instead of appending them verbatim (see
	// ComposeParams.MergeExtras).
	MergeExtraOptions bool
}

// Manager ties the rewriter and the reload trigger together behind the
// request/result contract.
type Manager struct {
	rewriter          *Rewriter
	trigger           ReloadTrigger
	skipPathCheck     bool
	mergeExtraOptions bool
}

// NewManager creates a Manager. trigger must not be nil; use a no-op
// trigger when reloads are not wanted.
func NewManager(cfg ManagerConfig, trigger ReloadTrigger) *Manager {
	return &Manager{
		rewriter:          NewRewriter(cfg.Rewriter),
		trigger:           trigger,
		skipPathCheck:     cfg.SkipPathCheck,
		mergeExtraOptions: cfg.MergeExtraOptions,
	}
}

// Apply validates and executes one request.
//
// A reload failure is reported as an error wrapping ErrReloadFailed, but the
// returned Result is still valid: the rewrite was already committed and is
// not rolled back.
func (m *Manager) Apply(ctx context.Context, req *Request) (*Result, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	op := RewriteOp{
		Path:     req.Path,
		Client:   req.Client,
		ClearAll: req.ClearAll,
		DryRun:   req.DryRun,
	}

	result := &Result{}

	switch req.Action {
	case ActionAdd:
		if !m.skipPathCheck {
			if err := checkExportPath(req.Path); err != nil {
				return nil, err
			}
		}

		options := ComposeOptions(ComposeParams{
			ReadOnly:    req.ReadOnly,
			RootSquash:  req.RootSquash,
			AllSquash:   req.AllSquash,
			Security:    req.Security,
			Extra:       req.ExtraOptions,
			MergeExtras: m.mergeExtraOptions,
		})
		op.Options = &options
		result.Message = fmt.Sprintf("added export %s for %s", req.Path, req.Client)

	case ActionRemove:
		result.Message = fmt.Sprintf("removed export %s for %s", req.Path, req.Client)
	}

	changed, err := m.rewriter.Rewrite(ctx, op)
	if err != nil {
		return nil, err
	}
	result.Changed = changed

	if req.DryRun {
		result.Message = "dry run: " + result.Message
		return result, nil
	}

	if req.Reload {
		if err := m.trigger.Reload(ctx); err != nil {
			// The rewrite is committed; surface the reload failure
			// alongside the result instead of discarding it.
			logger.Error("export reload failed after committed rewrite: %v", err)
			return result, err
		}
	}

	return result, nil
}

// List returns every entry currently in the registry, in file order.
// Comment and blank lines are skipped. Returns ErrRegistryNotFound if the
// registry does not exist.
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, _, err := openRegistry(m.rewriter.registryPath, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var entries []Entry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		parsed, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, parsed...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", m.rewriter.registryPath, err)
	}

	return entries, nil
}

// checkExportPath verifies the exported path exists and is a directory.
func checkExportPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("export path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("export path %s is not a directory", path)
	}
	return nil
}
