package archiver

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func checkErr(t *testing.T, err error, msgFmt string, args ...interface{}) {
	t.Helper()
	if err == nil {
		return
	}
	args = append(args, err)
	t.Fatalf(msgFmt+": %s", args...)
}

// makeTree creates the given layout below root. Keys ending in "/"
// are directories; all other keys are files with the value as content.
func makeTree(t *testing.T, root string, layout map[string]string) {
	t.Helper()
	for name, contents := range layout {
		p := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			checkErr(t, os.MkdirAll(p, 0o755), "making directory %s", name)
			continue
		}
		checkErr(t, os.MkdirAll(filepath.Dir(p), 0o755), "making parent of %s", name)
		checkErr(t, os.WriteFile(p, []byte(contents), 0o644), "writing %s", name)
	}
}

// archiveEntry is one entry as read back from a produced archive.
type archiveEntry struct {
	Name     string
	Dir      bool
	Contents string
}

// readZip reads every entry of the zip file at zipPath, in order,
// using the standard library reader.
func readZip(t *testing.T, zipPath string) []archiveEntry {
	t.Helper()
	r, err := zip.OpenReader(zipPath)
	checkErr(t, err, "opening %s", zipPath)
	defer r.Close()

	var entries []archiveEntry
	for _, zf := range r.File {
		entry := archiveEntry{Name: zf.Name, Dir: zf.FileInfo().IsDir()}
		if !entry.Dir {
			rc, err := zf.Open()
			checkErr(t, err, "opening %s in zip", zf.Name)
			data, err := io.ReadAll(rc)
			checkErr(t, err, "reading %s in zip", zf.Name)
			rc.Close()
			entry.Contents = string(data)
		}
		entries = append(entries, entry)
	}
	return entries
}

// readTar reads every entry of an uncompressed tar stream, in order.
func readTar(t *testing.T, r io.Reader) []archiveEntry {
	t.Helper()
	tr := tar.NewReader(r)

	var entries []archiveEntry
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		checkErr(t, err, "reading tar header")
		entry := archiveEntry{Name: hdr.Name, Dir: hdr.Typeflag == tar.TypeDir}
		if hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			checkErr(t, err, "reading %s in tar", hdr.Name)
			entry.Contents = string(data)
		}
		entries = append(entries, entry)
	}
	return entries
}

func entryNames(entries []archiveEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
