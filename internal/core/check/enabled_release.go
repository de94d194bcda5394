//go:build ecsrelease

package check

const Enabled = false
