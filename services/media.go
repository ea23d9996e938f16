package services

import (
	"os"
	"strings"
)

// FallbackAvatar is served whenever a user has no avatar stored.
const FallbackAvatar = "https://upload.wikimedia.org/wikipedia/commons/8/89/Portrait_Placeholder.png"

// ResolveMediaURL maps a stored media path to a publicly resolvable URL.
// Absolute URLs pass through untouched; relative paths are joined onto
// MEDIA_BASE_URL; empty resolves to the fallback avatar.
func ResolveMediaURL(path string) string {
	if path == "" {
		return FallbackAvatar
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	base := strings.TrimRight(os.Getenv("MEDIA_BASE_URL"), "/")
	if base == "" {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
