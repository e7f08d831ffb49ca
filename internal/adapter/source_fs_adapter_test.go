package adapter

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	m "sieve.dev/pkg/sieve/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("descends into nested directories", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "a.jpg"), "a")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "b.jpg"), "b")

		var visited []string
		err := adapter.Walk(m.Path(root), func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		for _, expected := range []string{root, filepath.Join(root, "a.jpg"), nestedDir, filepath.Join(nestedDir, "b.jpg")} {
			if !containsPath(visited, expected) {
				t.Fatalf("Walk() did not visit %s, visited %v", expected, visited)
			}
		}
	})

	t.Run("missing root reports error", func(t *testing.T) {
		adapter := NewSourceFSAdapter(afero.NewMemMapFs())

		err := adapter.Walk(m.Path("/missing"), func(_ string, _ os.FileInfo, err error) error {
			return err
		})
		if err == nil {
			t.Fatalf("Walk() expected error for missing root")
		}
	})

	t.Run("follows a symlinked root", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		base := t.TempDir()
		target := filepath.Join(base, "real")
		mustMkdir(t, filepath.Join(target, "a"))
		writeTestFile(t, filepath.Join(target, "a", "x.jpg"), "x")

		link := filepath.Join(base, "link")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}

		var files []string
		err := adapter.Walk(m.Path(link), func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		want := filepath.Join(link, "a", "x.jpg")
		if len(files) != 1 || files[0] != want {
			t.Fatalf("Walk() files = %v, want [%s]", files, want)
		}
	})
}

func TestLocalSourceFSAdapter_OpenAndFileInfo(t *testing.T) {
	fs := afero.NewMemMapFs()
	adapter := NewSourceFSAdapter(fs)

	if err := afero.WriteFile(fs, "/root/x.jpg", []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := adapter.Open(m.Path("/root/x.jpg"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil || string(data) != "content" {
		t.Fatalf("ReadAll() = %q, %v", data, err)
	}

	info, err := adapter.FileInfo(m.Path("/root/x.jpg"))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.Size() != int64(len("content")) {
		t.Fatalf("FileInfo().Size() = %d", info.Size())
	}

	if _, err := adapter.Open(m.Path("/root/missing.jpg")); err == nil {
		t.Fatalf("Open() expected error for missing file")
	}
}

func TestLocalSourceFSAdapter_Exists(t *testing.T) {
	fs := afero.NewMemMapFs()
	adapter := NewSourceFSAdapter(fs)

	if err := fs.MkdirAll("/root/removed", 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	exists, err := adapter.Exists(m.Path("/root/removed"))
	if err != nil || !exists {
		t.Fatalf("Exists(removed) = %v, %v; want true", exists, err)
	}

	exists, err = adapter.Exists(m.Path("/root/other"))
	if err != nil || exists {
		t.Fatalf("Exists(other) = %v, %v; want false", exists, err)
	}
}

func TestLocalSourceFSAdapter_MkdirAllAndRename(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	src := filepath.Join(root, "x.jpg")
	writeTestFile(t, src, "payload")

	dstDir := filepath.Join(root, "removed", "a", "b")
	if err := adapter.MkdirAll(m.Path(dstDir)); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	dst := filepath.Join(dstDir, "x.jpg")
	if err := adapter.Rename(m.Path(src), m.Path(dst)); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present after Rename(): %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("destination = %q, %v", data, err)
	}

	if err := adapter.Rename(m.Path(src), m.Path(dst)); err == nil {
		t.Fatalf("Rename() expected error for missing source")
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
