//go:build !ecsrelease

package check

// Enabled reports whether contract checks are compiled in.
const Enabled = true
