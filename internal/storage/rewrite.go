package storage

import (
	"path"
	"strings"
)

// KeyRewrite derives the destination key of a redacted image from its
// source key by rewriting a leading path segment.
type KeyRewrite struct {
	// FromPrefix is the source segment, e.g. "incoming/".
	FromPrefix string `mapstructure:"from_prefix" yaml:"from_prefix" json:"from_prefix"`
	// ToPrefix replaces FromPrefix, e.g. "redacted/".
	ToPrefix string `mapstructure:"to_prefix" yaml:"to_prefix" json:"to_prefix"`
	// FallbackFilePrefix is prepended to the filename when the key does
	// not carry FromPrefix, so the output never overwrites the input.
	FallbackFilePrefix string `mapstructure:"fallback_file_prefix" yaml:"fallback_file_prefix" json:"fallback_file_prefix"`
}

// DefaultKeyRewrite returns the conventional incoming→redacted rule.
func DefaultKeyRewrite() KeyRewrite {
	return KeyRewrite{
		FromPrefix:         "incoming/",
		ToPrefix:           "redacted/",
		FallbackFilePrefix: "redacted-",
	}
}

// Apply rewrites a source key into its destination key. The result is
// always different from the input for non-empty keys.
func (r KeyRewrite) Apply(key string) string {
	if r.FromPrefix != "" && strings.HasPrefix(key, r.FromPrefix) {
		return r.ToPrefix + strings.TrimPrefix(key, r.FromPrefix)
	}
	dir, file := path.Split(key)
	return dir + r.FallbackFilePrefix + file
}
