package archiver

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// RegisterFormat registers a format. It should be called during init.
// Duplicate formats by name are not allowed and will panic.
func RegisterFormat(format Format) {
	name := strings.Trim(strings.ToLower(format.Name()), ".")
	if _, ok := formats[name]; ok {
		panic("format " + name + " is already registered")
	}
	formats[name] = format
}

// Identify returns the format to write for the given filename, which
// is matched by its extension(s). It recognizes archive files (.tar,
// .zip), compressed files (.gz, .xz...), and compressed tar archives
// (.tar.gz, .tar.zst...). The returned Format value can be
// type-asserted to ascertain its capabilities.
//
// If no matching formats were found, special error ErrNoMatch is returned.
func Identify(filename string) (Format, error) {
	name := strings.ToLower(filename)

	// compression is the outer "layer", so it is the last extension
	compression := identifyCompression(name)
	if compression != nil {
		name = strings.TrimSuffix(name, compression.Name())
	}

	var archival Archival
	for _, format := range registered() {
		af, isArchive := format.(Archival)
		if isArchive && af.Match(name) {
			archival = af
			break
		}
	}

	switch {
	case compression != nil && archival == nil:
		return compression, nil
	case compression == nil && archival != nil:
		return archival, nil
	case compression != nil && archival != nil:
		// only tar streams are wrapped in a compression layer
		if _, ok := archival.(Tar); !ok {
			return nil, fmt.Errorf("%w: %s inside %s", ErrNoMatch, archival.Name(), compression.Name())
		}
		return CompressedArchive{compression, archival}, nil
	default:
		return nil, ErrNoMatch
	}
}

// IdentifyCompression returns the compression format for filename by
// its last extension alone, so "site.zip.gz" gives the gzip format.
// If none matches, ErrNoMatch is returned.
func IdentifyCompression(filename string) (Compression, error) {
	if compression := identifyCompression(strings.ToLower(filename)); compression != nil {
		return compression, nil
	}
	return nil, ErrNoMatch
}

// identifyCompression returns the compression format whose extension
// ends name, or nil. The longest name wins in case one extension ends
// another.
func identifyCompression(name string) Compression {
	var compression Compression
	for _, format := range registered() {
		cf, isCompression := format.(Compression)
		if !isCompression || !cf.Match(name) {
			continue
		}
		if compression == nil || len(cf.Name()) > len(compression.Name()) {
			compression = cf
		}
	}
	return compression
}

// registered returns the registered formats sorted by name,
// so that identification does not depend on map order.
func registered() []Format {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]Format, 0, len(names))
	for _, name := range names {
		list = append(list, formats[name])
	}
	return list
}

// CompressedArchive combines a compression format on top of an archive
// format (e.g. "tar.gz") and provides both functionalities in a single
// type. It ensures that archive functions are wrapped by compressors.
//
// As this type is intended to compose compression and archive formats,
// both must be specified in order for this value to be valid, or its
// methods will return errors.
type CompressedArchive struct {
	Compression
	Archival
}

// Name returns a concatenation of the archive format name
// and the compression format name.
func (caf CompressedArchive) Name() string {
	if caf.Compression == nil && caf.Archival == nil {
		panic("missing both compression and archive formats")
	}
	var name string
	if caf.Archival != nil {
		name += caf.Archival.Name()
	}
	if caf.Compression != nil {
		name += caf.Compression.Name()
	}
	return name
}

// Match matches if the filename ends with both extensions, in order.
func (caf CompressedArchive) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), caf.Name())
}

// Archive adds files to the output archive while compressing the result.
func (caf CompressedArchive) Archive(ctx context.Context, output io.Writer, files []File) error {
	return caf.compress(output, func(w io.Writer) error {
		return caf.Archival.Archive(ctx, w, files)
	})
}

// ArchiveDir walks sourceDir into the output archive while compressing
// the result.
func (caf CompressedArchive) ArchiveDir(ctx context.Context, output io.Writer, sourceDir, rootInArchive string) error {
	return caf.compress(output, func(w io.Writer) error {
		return caf.Archival.ArchiveDir(ctx, w, sourceDir, rootInArchive)
	})
}

// compress runs write against a compressing writer on top of output.
// The archive is finished by write before the compressor is closed, so
// the archive footer is part of the compressed stream.
func (caf CompressedArchive) compress(output io.Writer, write func(io.Writer) error) (err error) {
	if caf.Archival == nil {
		return fmt.Errorf("no archive format specified")
	}
	if caf.Compression == nil {
		return write(output)
	}

	wc, err := caf.Compression.OpenWriter(output)
	if err != nil {
		return fmt.Errorf("opening %s writer: %w", caf.Compression.Name(), err)
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s writer: %w", caf.Compression.Name(), cerr)
		}
	}()

	return write(wc)
}

// ErrNoMatch is returned if there are no matching formats.
var ErrNoMatch = fmt.Errorf("no formats matched")

// Registered formats.
var formats = make(map[string]Format)

// Interface guards
var (
	_ Format   = (*CompressedArchive)(nil)
	_ Archival = (*CompressedArchive)(nil)
)
