// Package reload implements the triggers that ask the running export
// service to adopt the current registry contents, typically by running
// exportfs(8). Triggers fire only after a rewrite has already committed; a
// trigger failure never rolls the rewrite back.
package reload

import "context"

// NoopTrigger does nothing. Used when reloads are disabled in configuration
// and as the trigger for dry runs and tests.
type NoopTrigger struct{}

// Reload implements exports.ReloadTrigger.
func (NoopTrigger) Reload(context.Context) error { return nil }
