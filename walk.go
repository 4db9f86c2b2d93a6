package archiver

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Walk returns the absolute paths of every file and directory below
// root, recursively. A directory always comes before its contents,
// and the entries of one directory are listed in lexical order.
//
// If root does not exist, cannot be read, or is not a directory, the
// result is empty and the error is nil: there is simply nothing to
// archive. Symbolic links and other special files are skipped, never
// followed.
func Walk(root string) ([]string, error) {
	var paths []string
	err := walkDir(root, nil, func(pathOnDisk, _ string, _ fs.DirEntry) error {
		paths = append(paths, pathOnDisk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

// walkFunc is called for every entry visited by walkDir. pathOnDisk
// is absolute; relName is the slash-separated path relative to the
// walk root.
type walkFunc func(pathOnDisk, relName string, d fs.DirEntry) error

// pendingEntry is a discovered but not yet visited entry.
type pendingEntry struct {
	pathOnDisk string
	relName    string
	d          fs.DirEntry
}

// walkDir visits the tree below root in pre-order, using an explicit
// stack of pending entries rather than recursion.
func walkDir(root string, logger *log.Logger, visit walkFunc) error {
	if logger == nil {
		logger = log.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("%s: resolving absolute path: %w", root, err)
	}
	root = absRoot

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		logger.Debug("nothing to walk", "root", root, "err", err)
		return nil
	}
	children, err := os.ReadDir(root)
	if err != nil {
		logger.Debug("root directory is unreadable", "root", root, "err", err)
		return nil
	}

	var stack []pendingEntry
	stack = pushChildren(stack, root, "", children)

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t := entry.d.Type(); t != 0 && !t.IsDir() {
			logger.Debug("skipping special file", "path", entry.pathOnDisk, "type", t.String())
			continue
		}

		if err := visit(entry.pathOnDisk, entry.relName, entry.d); err != nil {
			return err
		}

		if !entry.d.IsDir() {
			continue
		}
		children, err := os.ReadDir(entry.pathOnDisk)
		if err != nil {
			return fmt.Errorf("%s: reading directory: %w", entry.pathOnDisk, err)
		}
		stack = pushChildren(stack, entry.pathOnDisk, entry.relName, children)
	}

	return nil
}

// pushChildren pushes the children of a directory in reverse, so
// that popping yields them in their original (lexical) order.
func pushChildren(stack []pendingEntry, dirOnDisk, dirRelName string, children []fs.DirEntry) []pendingEntry {
	for i := len(children) - 1; i >= 0; i-- {
		d := children[i]
		stack = append(stack, pendingEntry{
			pathOnDisk: filepath.Join(dirOnDisk, d.Name()),
			relName:    path.Join(dirRelName, d.Name()),
			d:          d,
		})
	}
	return stack
}
