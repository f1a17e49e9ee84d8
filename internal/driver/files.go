package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"pyrewrite/internal/source"
)

// collectSourceFiles expands the command-line paths into the files to
// process. Directories are walked for *.py files; plain paths are kept in
// argument order even when they do not exist, so that the load step can
// report them. Duplicates are dropped.
func collectSourceFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resolved, err := source.ResolvePath(p)
		if err != nil {
			addFile(p)
			continue
		}

		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			addFile(resolved)
			continue
		}
		err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != resolved && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".py" {
				addFile(filepath.ToSlash(path))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// skipDir reports directories never worth descending into.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__" || name == "node_modules"
}
