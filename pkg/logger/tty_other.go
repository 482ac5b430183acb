//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package logger

func isTerminal(uintptr) bool { return false }
