// Package channelart maps television channels to the artwork a front end shows
// for them. Channel 0 has no artwork.
package channelart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tvremote/internal/television"

	"go.uber.org/zap"
)

// ErrFolderNotFound is returned by Validate when the artwork folder is missing
var ErrFolderNotFound = errors.New("channel art folder not found")

// FirstArtChannel is the lowest channel that has artwork
const FirstArtChannel = 1

// Catalog resolves channel artwork inside a single folder
type Catalog struct {
	dir    string
	logger *zap.Logger
}

// NewCatalog creates a catalog for images stored in dir
func NewCatalog(dir string, logger *zap.Logger) *Catalog {
	return &Catalog{
		dir:    dir,
		logger: logger.Named("channelart"),
	}
}

// Dir returns the artwork folder
func (c *Catalog) Dir() string {
	return c.dir
}

// ImageFor returns the artwork path for channel. Channel 0 and anything outside
// the television's range report false.
func (c *Catalog) ImageFor(channel int) (string, bool) {
	if channel < FirstArtChannel || channel > television.MaxChannel {
		return "", false
	}
	return filepath.Join(c.dir, fmt.Sprintf("channel%d.png", channel)), true
}

// Paths returns every expected artwork path in channel order
func (c *Catalog) Paths() []string {
	paths := make([]string, 0, television.MaxChannel)
	for ch := FirstArtChannel; ch <= television.MaxChannel; ch++ {
		path, _ := c.ImageFor(ch)
		paths = append(paths, path)
	}
	return paths
}

// Validate checks that the folder and every channel image exist. Missing images
// are returned and logged but are not an error.
func (c *Catalog) Validate() ([]string, error) {
	info, err := os.Stat(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Error("Channel art folder not found, create it and add channel images",
				zap.String("dir", c.dir))
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, c.dir)
		}
		return nil, fmt.Errorf("failed to stat channel art folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFolderNotFound, c.dir)
	}

	var missing []string
	for _, path := range c.Paths() {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		c.logger.Warn("Channel art files are missing",
			zap.Strings("missing", missing))
	} else {
		c.logger.Debug("All channel art present", zap.String("dir", c.dir))
	}

	return missing, nil
}
