// Package scanner discovers folders containing images under a root directory.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcsoft/photoreport/internal/utils"
)

// FolderEntry describes one folder that contains at least one qualifying image.
type FolderEntry struct {
	// Path is the folder path as visited during the scan.
	Path string
	// Images holds the qualifying filenames in directory listing order.
	Images []string
}

// Config holds configuration for the scanner
type Config struct {
	// Extensions is the set of qualifying image extensions, without dots,
	// matched case-insensitively.
	Extensions []string
}

// Scanner walks a directory tree and reports folders holding images.
type Scanner struct {
	config Config
}

// DefaultExtensions returns the default qualifying extensions.
func DefaultExtensions() []string {
	return []string{"png", "jpg", "jpeg"}
}

// New creates a new Scanner with default configuration
func New() *Scanner {
	return &Scanner{
		config: Config{
			Extensions: DefaultExtensions(),
		},
	}
}

// NewWithConfig creates a new Scanner with custom configuration
func NewWithConfig(config Config) *Scanner {
	if len(config.Extensions) == 0 {
		config.Extensions = DefaultExtensions()
	}
	return &Scanner{config: config}
}

// Scan visits root and every descendant folder in pre-order, listing each
// folder's direct files and keeping those whose extension qualifies. Folders
// with no qualifying images are omitted from the result. Any read error
// aborts the scan with no partial result.
func (s *Scanner) Scan(root string) ([]FolderEntry, error) {
	var entries []FolderEntry
	if err := s.scanDir(root, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Scanner) scanDir(dir string, entries *[]FolderEntry) error {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	var images []string
	var subdirs []string
	for _, item := range listing {
		if item.IsDir() {
			subdirs = append(subdirs, item.Name())
			continue
		}
		if s.isQualifying(item.Name()) {
			images = append(images, item.Name())
		}
	}

	// Parent folder before any of its subfolders.
	if len(images) > 0 {
		*entries = append(*entries, FolderEntry{Path: dir, Images: images})
	}

	for _, name := range subdirs {
		if err := s.scanDir(filepath.Join(dir, name), entries); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) isQualifying(filename string) bool {
	ext := utils.GetFileExtension(filename)
	if ext == "" {
		return false
	}
	for _, candidate := range s.config.Extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}
