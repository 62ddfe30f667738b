package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
)

// DefaultMaxSize caps the total uncompressed size of an archive.
const DefaultMaxSize int64 = 512 << 20

// Result summarizes a completed extraction.
type Result struct {
	Files   int
	Dirs    int
	Skipped []string
}

type options struct {
	strip   int
	maxSize int64
}

// Option configures Extract.
type Option func(*options)

// WithStripComponents sets how many leading path components are dropped from
// every entry. The default is 1, the synthetic folder that wraps all content
// in branch archives.
func WithStripComponents(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.strip = n
		}
	}
}

// WithMaxSize overrides DefaultMaxSize.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// entry is one archive record, independent of the container format.
type entry struct {
	name    string
	dir     bool
	regular bool
	mode    fs.FileMode
}

// Extract writes the archive in src into dst. The format is detected from
// the content. Extraction stops at the first error; whatever was written
// before it stays in dst.
func Extract(src []byte, dst billy.Filesystem, opts ...Option) (*Result, error) {
	o := options{strip: 1, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}

	x := &extractor{dst: dst, opts: o, result: &Result{}}

	var err error
	switch format := detect(src); format {
	case "application/zip":
		err = x.zip(src)
	case "application/gzip":
		err = x.tarGz(src)
	case "application/x-tar":
		err = x.tar(bytes.NewReader(src))
	default:
		err = corrupt("", fmt.Errorf("unsupported archive format %s", format))
	}
	if err != nil {
		return nil, err
	}
	return x.result, nil
}

// detect walks the sniffed type's ancestry so zip-based formats such as jar
// are still treated as zip.
func detect(src []byte) string {
	mt := mimetype.Detect(src)
	for m := mt; m != nil; m = m.Parent() {
		for _, known := range []string{"application/zip", "application/gzip", "application/x-tar"} {
			if m.Is(known) {
				return known
			}
		}
	}
	return mt.String()
}

type extractor struct {
	dst     billy.Filesystem
	opts    options
	result  *Result
	written int64
}

func (x *extractor) zip(src []byte) error {
	r, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return corrupt("", fmt.Errorf("opening zip archive: %w", err))
	}

	for _, f := range r.File {
		mode := f.Mode()
		e := entry{
			name:    f.Name,
			dir:     mode.IsDir() || hasTrailingSlash(f.Name),
			regular: mode.IsRegular(),
			mode:    mode.Perm(),
		}

		if err := x.handle(e, func() (io.ReadCloser, error) { return f.Open() }); err != nil {
			return err
		}
	}
	return nil
}

func (x *extractor) tarGz(src []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return corrupt("", fmt.Errorf("creating gzip reader: %w", err))
	}
	defer gz.Close()
	return x.tar(gz)
}

func (x *extractor) tar(r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return corrupt("", fmt.Errorf("reading tar entry: %w", err))
		}

		e := entry{
			name:    hdr.Name,
			dir:     hdr.Typeflag == tar.TypeDir,
			regular: hdr.Typeflag == tar.TypeReg,
			mode:    fs.FileMode(hdr.Mode).Perm(),
		}

		if err := x.handle(e, func() (io.ReadCloser, error) { return io.NopCloser(tr), nil }); err != nil {
			return err
		}
	}
}

func (x *extractor) handle(e entry, open func() (io.ReadCloser, error)) error {
	rel, ok, err := resolve(e.name, x.opts.strip)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if e.dir {
		if err := x.dst.MkdirAll(rel, 0755); err != nil {
			return ioFailure(e.name, err)
		}
		x.result.Dirs++
		return nil
	}

	// Symlinks, hard links and metadata records are not materialized.
	if !e.regular {
		x.result.Skipped = append(x.result.Skipped, rel)
		return nil
	}

	rc, err := open()
	if err != nil {
		return corrupt(e.name, err)
	}
	defer rc.Close()

	remaining := x.opts.maxSize - x.written
	data, err := io.ReadAll(io.LimitReader(rc, remaining+1))
	if err != nil {
		return corrupt(e.name, err)
	}
	if int64(len(data)) > remaining {
		return corrupt(e.name, fmt.Errorf("archive exceeds %d bytes uncompressed", x.opts.maxSize))
	}
	x.written += int64(len(data))

	return x.writeFile(e, rel, data)
}

func (x *extractor) writeFile(e entry, rel string, data []byte) error {
	if dir := path.Dir(rel); dir != "." {
		if err := x.dst.MkdirAll(dir, 0755); err != nil {
			return ioFailure(e.name, err)
		}
	}

	perm := e.mode
	if perm == 0 {
		perm = 0644
	}

	f, err := x.dst.OpenFile(rel, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ioFailure(e.name, fmt.Errorf("%s already exists", rel))
		}
		return ioFailure(e.name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return ioFailure(e.name, err)
	}
	if err := f.Close(); err != nil {
		return ioFailure(e.name, err)
	}

	x.result.Files++
	return nil
}

func hasTrailingSlash(name string) bool {
	return len(name) > 0 && (name[len(name)-1] == '/' || name[len(name)-1] == '\\')
}
