// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// MergePrimary rewrites the jar at jarPath in place. The jar is exploded into
// workDir, its META-INF directory is dropped, and the remaining entries are repacked
// with a fresh manifest. workDir is removed afterwards whether or not the merge
// succeeded.
//
// The jar must be a staged copy; artifacts in the resolver's repository are never
// modified.
func MergePrimary(fs billy.Filesystem, jarPath, workDir string, logger Logger) (err error) {
	logger = orNop(logger)

	defer func() {
		if rmErr := util.RemoveAll(fs, workDir); rmErr != nil {
			logger.Warn("failed to remove merge directory", "dir", workDir, "error", rmErr)
		}
	}()

	if err = ExplodeZip(fs, jarPath, workDir); err != nil {
		return err
	}
	if err = util.RemoveAll(fs, filepath.Join(workDir, "META-INF")); err != nil {
		return fmt.Errorf("merge %s: %w", jarPath, err)
	}
	if err = writeJar(fs, workDir, jarPath, nil); err != nil {
		return fmt.Errorf("merge %s: %w", jarPath, err)
	}

	logger.Debug("merged primary artifact", "file", jarPath)
	return nil
}
