package xl

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage receives the package parts of a workbook. Part names may start
// with '/'; implementations store them relative to the package root.
type Storage interface {
	WriteBlob(path string, blob []byte) error
}

func partName(path string) string {
	return strings.TrimPrefix(path, "/")
}

// DirStorage lays the parts out as plain files under Dir, for inspecting
// the generated XML.
type DirStorage struct {
	Dir string
}

func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir}
}

func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	fn := filepath.Join(ds.Dir, filepath.FromSlash(partName(path)))
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fn, blob, 0o644)
}

// ZipStorage writes an .xlsx archive. Close must be called once all parts
// are written.
type ZipStorage struct {
	z     *zip.Writer
	parts map[string]bool
}

func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out), parts: map[string]bool{}}
}

// WriteBlob adds a deflated entry. A part name can only be written once.
func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	name := partName(path)
	if zs.parts[name] {
		return fmt.Errorf("duplicate package part %q", name)
	}
	zs.parts[name] = true
	f, err := zs.z.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}

// MemStorage keeps parts in memory, keyed by part name without the leading
// '/'.
type MemStorage map[string][]byte

func (ms MemStorage) WriteBlob(path string, blob []byte) error {
	ms[partName(path)] = blob
	return nil
}
