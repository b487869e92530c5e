package router

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"rigrouter/forte"
	"rigrouter/platform"
)

// Catalogue scans dir for performance files and returns one Set per set list
// of every file that loads. Files that fail to load are logged and skipped.
func Catalogue(dir string, load Loader, logger *log.Logger) ([]Set, error) {
	if load == nil {
		load = forte.Load
	}
	if logger == nil {
		logger = log.Default()
	}

	paths, err := platform.ListSetFiles(dir, forte.Extensions)
	if err != nil {
		return nil, err
	}

	var sets []Set
	for _, path := range paths {
		doc, err := load(path)
		if err != nil {
			logger.Warn("skipping set file", "path", path, "err", err)
			continue
		}
		sets = append(sets, SetsOf(path, doc)...)
	}
	logger.Debug("catalogue scanned", "dir", dir, "files", len(paths), "sets", len(sets))
	return sets, nil
}

// SetsOf lists the set lists of one loaded document
func SetsOf(path string, doc *forte.File) []Set {
	short := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lists := doc.Rack.SetLists
	sets := make([]Set, 0, len(lists.SetLists))
	for i, sl := range lists.SetLists {
		sets = append(sets, Set{
			Path:                path,
			ShortName:           short,
			SetListIndex:        i,
			DefaultSetListIndex: lists.Active,
			SetListName:         sl.Name,
		})
	}
	return sets
}
