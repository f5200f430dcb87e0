// Package lifecycle runs startup hooks once every singleton is wired.
//
// Hooks are zero-argument methods named with catalog.OnStart. A hook that
// cannot be called (missing, unexported, or declaring parameters) is skipped
// with a warning; a hook that panics or returns a non-nil error is logged.
// Neither stops the remaining hooks.
package lifecycle
