package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/joseph-ayodele/inbody-tracker/constants"
	"github.com/joseph-ayodele/inbody-tracker/internal/common"
)

// ListImages returns the scan photos directly inside folder, sorted by
// path. The walk is not recursive and non-image files are ignored.
func ListImages(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewAppError("FOLDER_NOT_FOUND", fmt.Sprintf("folder not found: %s", folder), common.ErrNotFound)
		}
		return nil, common.NewAppError("FOLDER_UNREADABLE", fmt.Sprintf("cannot stat folder: %s", folder), err)
	}
	if !info.IsDir() {
		return nil, common.NewAppError("NOT_A_DIRECTORY", fmt.Sprintf("path is not a directory: %s", folder), common.ErrInvalidInput)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, common.NewAppError("FOLDER_UNREADABLE", fmt.Sprintf("cannot read folder: %s", folder), err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(e.Name()))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(folder, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
