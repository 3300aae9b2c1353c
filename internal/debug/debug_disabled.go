//go:build !debug

package debug

// Log is a no-op in normal builds; build with -tags debug to enable it.
func Log(f string, args ...interface{}) {}
