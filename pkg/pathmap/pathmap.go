// Package pathmap maps input-tree image paths to their output-tree
// counterparts. The transcoding driver writes through this mapping and the
// report builder reads through it; both must use OutputPath so the two trees
// can never diverge.
package pathmap

import (
	"fmt"
	"path/filepath"
)

// OutputPath returns the destination path for an image named filename that
// lives in folder under inputRoot, mirrored at the same relative path under
// outputRoot. The filename is kept as-is, extension included.
func OutputPath(inputRoot, outputRoot, folder, filename string) (string, error) {
	rel, err := filepath.Rel(inputRoot, folder)
	if err != nil {
		return "", fmt.Errorf("failed to resolve relative path of %s: %w", folder, err)
	}
	return filepath.Join(outputRoot, rel, filename), nil
}
