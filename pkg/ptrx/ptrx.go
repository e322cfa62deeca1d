// Package ptrx has small helpers for optional values in request structs.
package ptrx

import "strings"

// To returns a pointer to v
func To[T any](v T) *T {
	return &v
}

func String(v string) *string { return &v }
func Int(v int) *int          { return &v }
func Bool(v bool) *bool       { return &v }

// Deref returns *p, or the zero value when p is nil
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// DerefOr returns *p, or fallback when p is nil
func DerefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// TrimmedString returns the trimmed value of p, or nil when p is nil
func TrimmedString(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

// Apply sets *dst to *src when src is set
func Apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
