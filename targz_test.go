package archiver

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readTarGz(t *testing.T, tarGzPath string) []archiveEntry {
	t.Helper()
	f, err := os.Open(tarGzPath)
	checkErr(t, err, "opening %s", tarGzPath)
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	checkErr(t, err, "opening gzip stream")
	defer gzr.Close()
	return readTar(t, gzr)
}

func TestTarGzDir(t *testing.T) {
	proj := filepath.Join(t.TempDir(), "proj")
	makeTree(t, proj, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})
	out := filepath.Join(t.TempDir(), "out.tar.gz")

	checkErr(t, TarGzDir(context.Background(), proj, out), "making tar.gz")

	expect := []archiveEntry{
		{Name: "out/a.txt", Contents: "hello"},
		{Name: "out/sub/", Dir: true},
		{Name: "out/sub/b.txt", Contents: "world"},
	}
	if diff := cmp.Diff(expect, readTarGz(t, out)); diff != "" {
		t.Errorf("tar.gz entries mismatch (-want +got):\n%s", diff)
	}
}

func TestTarGzDirParentsFirstUnderPrefix(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"z.txt":           "z",
		"m/":              "",
		"m/n/o/p.txt":     "p",
		"m/n/q.txt":       "q",
		"a/empty/":        "",
		"a/file with spc": "spaces",
	})
	out := filepath.Join(t.TempDir(), "release-2.3.tar.gz")
	checkErr(t, TarGzDir(context.Background(), root, out), "making tar.gz")

	entries := readTarGz(t, out)
	written := make(map[string]bool)
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, "release-2.3/") {
			t.Errorf("%s: missing root prefix", e.Name)
		}
		name := strings.TrimSuffix(e.Name, "/")
		if parent := filepath.ToSlash(filepath.Dir(name)); parent != "release-2.3" && !written[parent] {
			t.Errorf("%s written before its parent %s", e.Name, parent)
		}
		written[name] = true
	}

	paths, err := Walk(root)
	checkErr(t, err, "walking")
	if len(entries) != len(paths) {
		t.Errorf("expected %d entries, got %d", len(paths), len(entries))
	}
}

func TestTarGzDirNothingToArchive(t *testing.T) {
	for i, source := range []string{
		t.TempDir(),
		filepath.Join(t.TempDir(), "missing"),
	} {
		out := filepath.Join(t.TempDir(), "empty.tar.gz")
		if err := TarGzDir(context.Background(), source, out); err != nil {
			t.Fatalf("Test %d: expected no error, got %v", i, err)
		}
		if entries := readTarGz(t, out); len(entries) != 0 {
			t.Errorf("Test %d: expected an archive without entries, got %v", i, entryNames(entries))
		}
	}
}

func TestTarGzDirSameContentTwice(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"x/y/z.txt": "zzz",
		"top.txt":   "top",
	})
	tmp := t.TempDir()
	first := filepath.Join(tmp, "a", "pkg.tar.gz")
	second := filepath.Join(tmp, "b", "pkg.tar.gz")
	checkErr(t, os.MkdirAll(filepath.Dir(first), 0o755), "making dir")
	checkErr(t, os.MkdirAll(filepath.Dir(second), 0o755), "making dir")
	checkErr(t, TarGzDir(context.Background(), root, first), "first archive")
	checkErr(t, TarGzDir(context.Background(), root, second), "second archive")

	if diff := cmp.Diff(readTarGz(t, first), readTarGz(t, second)); diff != "" {
		t.Errorf("archives of the same tree differ (-first +second):\n%s", diff)
	}
}

func TestTarGzDirMultithreaded(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"big.bin": strings.Repeat("0123456789abcdef", 256*1024),
		"small":   "s",
	})
	out := filepath.Join(t.TempDir(), "mt.tar.gz")

	tgz := TarGz{Gz: Gz{Multithreaded: true}}
	checkErr(t, tgz.ArchiveDirToFile(context.Background(), root, out), "making tar.gz")

	entries := readTarGz(t, out)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entryNames(entries))
	}
	if entries[0].Name != "mt/big.bin" || len(entries[0].Contents) != 16*256*1024 {
		t.Errorf("unexpected first entry %s with %d bytes", entries[0].Name, len(entries[0].Contents))
	}
}

func TestTarGzDirBadDestination(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing-dir", "out.tar.gz")
	if err := TarGzDir(context.Background(), t.TempDir(), out); err == nil {
		t.Fatal("expected an error when the destination cannot be created")
	}
}
