// Package process controls the lifetime of external renderer processes.
//
// Commands are started in their own process group (Isolate) so a timeout or
// cancellation can take down the renderer together with any helper
// processes it forked (KillProcessGroup).
package process
