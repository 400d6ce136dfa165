package engine

import (
	"fmt"
	"strings"
)

// maxPathParts bounds the number of components NormPath will process.
const maxPathParts = 32

// ParentDir returns the directory part of path, i.e. everything before the
// last '/'. The second return is false when path has no parent.
func ParentDir(path string) (string, bool) {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "", false
	}
	return path[:idx], true
}

// NormPath resolves "." and ".." components in a '/'-separated path using
// left-to-right stack resolution: each ".." removes the component
// immediately preceding it. A ".." with no preceding component is an
// error, as is a path with more than 32 components.
func NormPath(path string) (string, error) {
	parts := make([]string, 0, maxPathParts)
	count := 0
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." {
			continue
		}
		count++
		if count > maxPathParts {
			return "", fmt.Errorf("too many path segments in %q (max %d)", path, maxPathParts)
		}
		if part == ".." {
			if len(parts) == 0 {
				return "", fmt.Errorf("cannot resolve parent dir in %q", path)
			}
			parts = parts[:len(parts)-1]
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/"), nil
}
