package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileRef(t *testing.T) {
	ref := NewFileRef(Path(filepath.Join("root", "a", "x.jpg")), 42)

	assert.Equal(t, Path(filepath.Join("root", "a")), ref.Dir)
	assert.Equal(t, "x.jpg", ref.Name)
	assert.Equal(t, int64(42), ref.Size)
	assert.Equal(t, Path(filepath.Join("root", "a", "x.jpg")), ref.Path())
	assert.Equal(t, filepath.Join("root", "a", "x.jpg"), ref.String())
}

func TestFileRef_RelDir(t *testing.T) {
	root := Path(filepath.Join("data", "photos"))

	tests := []struct {
		name string
		dir  Path
		want Path
	}{
		{"root itself", root, "."},
		{"one level", Path(filepath.Join("data", "photos", "a")), "a"},
		{"nested", Path(filepath.Join("data", "photos", "a", "b")), Path(filepath.Join("a", "b"))},
		{"prefix sibling is not confused", Path(filepath.Join("data", "photos", "..photos")), "..photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := FileRef{Dir: tt.dir, Name: "x.jpg"}

			got, err := ref.RelDir(root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileRef_RelDirOutsideRoot(t *testing.T) {
	ref := FileRef{Dir: Path(filepath.Join("data", "other")), Name: "x.jpg"}

	_, err := ref.RelDir(Path(filepath.Join("data", "photos")))
	require.Error(t, err)
}

func TestResolution_Decisions(t *testing.T) {
	keep := FileRef{Dir: "r/a", Name: "x"}
	drop := FileRef{Dir: "r", Name: "x"}

	resolution := Resolution{
		Groups:     []ResolvedGroup{{Signature: "s", Survivor: keep, Quarantined: []FileRef{drop}}},
		Quarantine: []Decision{{File: drop, Disposition: Quarantine}},
	}

	decisions := resolution.Decisions()
	require.Len(t, decisions, 2)
	assert.Equal(t, Keep, decisions[0].Disposition)
	assert.Equal(t, keep, decisions[0].File)
	assert.Equal(t, Quarantine, decisions[1].Disposition)
	assert.Equal(t, "quarantine", decisions[1].Disposition.String())
}
