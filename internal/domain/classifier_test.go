package domain

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sieve.dev/pkg/sieve/internal/adapter"
	m "sieve.dev/pkg/sieve/internal/model"
)

func md5Hasher(t *testing.T) adapter.Hasher {
	t.Helper()

	hasher, err := adapter.NewHasher("md5")
	require.NoError(t, err)

	return hasher
}

func TestContentSignatureClassifier_GroupsIdenticalContent(t *testing.T) {
	_, fsAdapter := newMemFs(t, map[string]string{
		"/root/a/x.txt": "same",
		"/root/b/x.txt": "same",
		"/root/c/y.txt": "different",
	})

	files, err := NewScanner(fsAdapter).Scan("/root")
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		progress []m.Progress
	)

	classifier := NewContentSignatureClassifier(fsAdapter, md5Hasher(t), ClassifyOptions{Threads: 3})
	assert.Equal(t, m.StrategyContentSignature, classifier.Strategy())

	results, err := classifier.Classify(context.Background(), files, func(p m.Progress) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, result := range results {
		assert.Equal(t, files[i], result.File, "results keep scan order")
	}

	assert.Equal(t, results[0].Signature, results[1].Signature)
	assert.NotEqual(t, results[0].Signature, results[2].Signature)
	assert.Len(t, results[0].Signature, 32)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1].Percent)
}

func TestContentSignatureClassifier_FailsFastOnUnreadableFile(t *testing.T) {
	_, fsAdapter := newMemFs(t, map[string]string{
		"/root/a.txt": "a",
		"/root/c.txt": "c",
	})

	files := []m.FileRef{
		m.NewFileRef("/root/a.txt", 1),
		m.NewFileRef("/root/b.txt", 1),
		m.NewFileRef("/root/c.txt", 1),
	}

	classifier := NewContentSignatureClassifier(fsAdapter, md5Hasher(t), ClassifyOptions{Threads: 1})

	results, err := classifier.Classify(context.Background(), files, nil)
	require.ErrorIs(t, err, ErrIO)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "/root/b.txt")
}

func TestContentSignatureClassifier_FailsFastWithParallelWorkers(t *testing.T) {
	contents := map[string]string{}
	files := []m.FileRef{m.NewFileRef("/root/missing.txt", 1)}

	for i := 0; i < 50; i++ {
		path := fmt.Sprintf("/root/f%02d.txt", i)
		contents[path] = strings.Repeat("x", i+1)
		files = append(files, m.NewFileRef(m.Path(path), int64(i+1)))
	}

	_, fsAdapter := newMemFs(t, contents)

	classifier := NewContentSignatureClassifier(fsAdapter, md5Hasher(t), ClassifyOptions{Threads: 4})

	results, err := classifier.Classify(context.Background(), files, nil)
	require.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestContentSignatureClassifier_Cancelled(t *testing.T) {
	_, fsAdapter := newMemFs(t, map[string]string{"/root/a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	classifier := NewContentSignatureClassifier(fsAdapter, md5Hasher(t), ClassifyOptions{Threads: 2})

	_, err := classifier.Classify(ctx, []m.FileRef{m.NewFileRef("/root/a.txt", 1)}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidityClassifier_FlagsBrokenImages(t *testing.T) {
	jpegBytes := validJPEG(t)

	_, fsAdapter := newMemFs(t, map[string]string{
		"/root/ok.jpg":   jpegBytes,
		"/root/bad.jpg":  "",
		"/root/text.jpg": "plain text, not an image",
		"/root/cut.jpg":  jpegBytes[:len(jpegBytes)/2],
	})

	files, err := NewScanner(fsAdapter).Scan("/root", "*.jpg")
	require.NoError(t, err)
	require.Len(t, files, 4)

	decoder := adapter.NewLocalImageDecoder(fsAdapter)
	classifier := NewValidityClassifier(decoder, ClassifyOptions{Threads: 4})
	assert.Equal(t, m.StrategyValidity, classifier.Strategy())

	results, err := classifier.Classify(context.Background(), files, nil)
	require.NoError(t, err)

	invalid := map[string]string{}
	for _, result := range results {
		if result.Invalid {
			invalid[result.File.Name] = result.Reason
		}
	}

	assert.NotContains(t, invalid, "ok.jpg")
	assert.Contains(t, invalid, "bad.jpg")
	assert.Contains(t, invalid, "text.jpg")
	assert.Contains(t, invalid, "cut.jpg")
	assert.Contains(t, invalid["bad.jpg"], "cannot read")
	assert.Contains(t, invalid["cut.jpg"], "cannot load")
	assert.NotContains(t, invalid["bad.jpg"], "/root")
}

func TestValidityClassifier_StrictExtension(t *testing.T) {
	fs, fsAdapter := newMemFs(t, nil)
	require.NoError(t, writePNG(fs, "/root/pic.jpg"))

	files := []m.FileRef{m.NewFileRef("/root/pic.jpg", 0)}

	lenient := NewValidityClassifier(adapter.NewLocalImageDecoder(fsAdapter), ClassifyOptions{})
	results, err := lenient.Classify(context.Background(), files, nil)
	require.NoError(t, err)
	assert.False(t, results[0].Invalid)

	strict := NewValidityClassifier(adapter.NewLocalImageDecoder(fsAdapter, adapter.WithStrictExtension(true)), ClassifyOptions{})
	results, err = strict.Classify(context.Background(), files, nil)
	require.NoError(t, err)
	assert.True(t, results[0].Invalid)
	assert.Contains(t, results[0].Reason, "load failed")
}

type panickingDecoder struct{}

func (panickingDecoder) CanDecode(m.Path) (string, error) {
	return "jpeg", nil
}

func (panickingDecoder) Decode(m.Path, adapter.DiagnosticFunc) (image.Image, error) {
	panic("corrupt huffman table")
}

type nilDecoder struct{}

func (nilDecoder) CanDecode(m.Path) (string, error) {
	return "jpeg", nil
}

func (nilDecoder) Decode(m.Path, adapter.DiagnosticFunc) (image.Image, error) {
	return nil, nil
}

type emptyDecoder struct{}

func (emptyDecoder) CanDecode(m.Path) (string, error) {
	return "png", nil
}

func (emptyDecoder) Decode(_ m.Path, report adapter.DiagnosticFunc) (image.Image, error) {
	report(adapter.Diagnostic{Severity: adapter.SeverityInfo, Message: "decoded png 0x0"})

	return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
}

type warningDecoder struct{}

func (warningDecoder) CanDecode(m.Path) (string, error) {
	return "png", nil
}

func (warningDecoder) Decode(_ m.Path, report adapter.DiagnosticFunc) (image.Image, error) {
	report(adapter.Diagnostic{Severity: adapter.SeverityWarning, Message: "premature end of data"})

	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func TestValidityClassifier_DecoderOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		decoder adapter.ImageDecoder
		reason  string
	}{
		{"panic is caught", panickingDecoder{}, "cannot load: corrupt huffman table"},
		{"nil image", nilDecoder{}, "image is null"},
		{"zero size", emptyDecoder{}, "zero image size 0x0"},
		{"warning diagnostic", warningDecoder{}, "load failed: premature end of data"},
	}

	files := []m.FileRef{m.NewFileRef("/root/x.jpg", 1)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewValidityClassifier(tt.decoder, ClassifyOptions{Threads: 1})

			results, err := classifier.Classify(context.Background(), files, nil)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.True(t, results[0].Invalid)
			assert.Equal(t, tt.reason, results[0].Reason)
		})
	}
}
