package checksum

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReader(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	got, err := Reader(strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}
	if got != want {
		t.Errorf("Reader = %s", got)
	}
}

func TestFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(p, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := File(p)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	want, _ := Reader(strings.NewReader("abc"))
	if got != want {
		t.Errorf("File = %s, want %s", got, want)
	}
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "none.md"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}
