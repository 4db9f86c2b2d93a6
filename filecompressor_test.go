package archiver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

func TestCompressFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "app.tar")
	checkErr(t, os.WriteFile(source, []byte("not really a tar"), 0o644), "writing source")

	for i, tc := range []struct {
		destination string
		newReader   func(io.Reader) (io.Reader, error)
	}{
		{
			destination: "app.tar.gz",
			newReader:   func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		},
		{
			destination: "app.tar.xz",
			newReader:   func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) },
		},
		{
			destination: "app.zip.gz",
			newReader:   func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		},
	} {
		destination := filepath.Join(dir, tc.destination)
		if err := CompressFile(context.Background(), source, destination); err != nil {
			t.Errorf("Test %d (%s): unexpected error: %v", i, tc.destination, err)
			continue
		}

		f, err := os.Open(destination)
		checkErr(t, err, "opening %s", destination)
		r, err := tc.newReader(f)
		checkErr(t, err, "opening decompressor for %s", destination)
		data, err := io.ReadAll(r)
		f.Close()
		checkErr(t, err, "decompressing %s", destination)
		if string(data) != "not really a tar" {
			t.Errorf("Test %d (%s): got %q after round trip", i, tc.destination, data)
		}
	}
}

func TestCompressFileErrors(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "in.txt")
	checkErr(t, os.WriteFile(source, []byte("x"), 0o644), "writing source")
	existing := filepath.Join(dir, "exists.gz")
	checkErr(t, os.WriteFile(existing, nil, 0o644), "writing existing file")

	err := CompressFile(context.Background(), source, filepath.Join(dir, "out.txt"))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected ErrNoMatch for unknown extension, got %v", err)
	}

	if err := CompressFile(context.Background(), source, existing); err == nil {
		t.Error("expected error when destination exists")
	}
	fc := FileCompressor{Compression: Gz{}, OverwriteExisting: true}
	if err := fc.CompressFile(context.Background(), source, existing); err != nil {
		t.Errorf("expected overwrite to succeed, got %v", err)
	}

	if err := (FileCompressor{Compression: Gz{}}).CompressFile(context.Background(), source, filepath.Join(dir, "out.xz")); err == nil {
		t.Error("expected error for mismatched extension")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := CompressFile(ctx, source, filepath.Join(dir, "canceled.zst")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIdentifyCompression(t *testing.T) {
	for i, tc := range []struct {
		filename string
		expect   string // empty if no match expected
	}{
		{filename: "a.gz", expect: ".gz"},
		{filename: "a.zip.gz", expect: ".gz"},
		{filename: "a.tar.ZST", expect: ".zst"},
		{filename: "a.tar.lz", expect: ".lz"},
		{filename: "a.tar.lz4", expect: ".lz4"},
		{filename: "a.tar"},
		{filename: "a.zip"},
	} {
		comp, err := IdentifyCompression(tc.filename)
		if tc.expect == "" {
			if !errors.Is(err, ErrNoMatch) {
				t.Errorf("Test %d (%s): expected ErrNoMatch, got %v", i, tc.filename, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Test %d (%s): unexpected error: %v", i, tc.filename, err)
			continue
		}
		if comp.Name() != tc.expect {
			t.Errorf("Test %d (%s): expected %s but got %s", i, tc.filename, tc.expect, comp.Name())
		}
	}
}
