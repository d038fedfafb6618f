package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegion struct {
	visible    bool
	shows      int
	hides      int
	captureErr error
	showErr    error
	panicMsg   string
	seenVis    bool
	seenScale  float64
}

func (f *fakeRegion) ShowExportOnly(context.Context) error {
	f.shows++
	if f.showErr != nil {
		return f.showErr
	}
	f.visible = true
	return nil
}

func (f *fakeRegion) HideExportOnly(ctx context.Context) error {
	f.hides++
	if err := ctx.Err(); err != nil {
		return err
	}
	f.visible = false
	return nil
}

func (f *fakeRegion) Capture(_ context.Context, scale float64) ([]byte, error) {
	f.seenVis = f.visible
	f.seenScale = scale
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return []byte("png"), nil
}

type memSink struct {
	name string
	data []byte
	err  error
}

func (m *memSink) Save(_ context.Context, filename string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.name, m.data = filename, data
	return "/downloads/" + filename, nil
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "AAPL-earnings-analysis.png", Filename("aapl"))
	assert.Equal(t, "BRK.B-earnings-analysis.png", Filename(" BRK.B "))
}

func TestExport(t *testing.T) {
	r := &fakeRegion{}
	sink := &memSink{}
	e := NewExporter(sink)

	path, err := e.Export(context.Background(), r, "nvda")
	require.NoError(t, err)
	assert.Equal(t, "/downloads/NVDA-earnings-analysis.png", path)
	assert.Equal(t, "NVDA-earnings-analysis.png", sink.name)
	assert.Equal(t, []byte("png"), sink.data)

	assert.True(t, r.seenVis, "export-only elements visible during capture")
	assert.Equal(t, DefaultScale, r.seenScale)
	assert.False(t, r.visible, "export-only elements hidden afterwards")
	assert.Equal(t, 1, r.shows)
	assert.Equal(t, 1, r.hides)
}

func TestExport_WithScale(t *testing.T) {
	r := &fakeRegion{}
	_, err := NewExporter(&memSink{}, WithScale(3)).Export(context.Background(), r, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.seenScale)
}

func TestExport_NoSeriesIsNoop(t *testing.T) {
	r := &fakeRegion{}
	sink := &memSink{}
	e := NewExporter(sink)

	path, err := e.Export(context.Background(), r, "")
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = e.Export(context.Background(), nil, "AAPL")
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.Zero(t, r.shows)
	assert.Empty(t, sink.name)
}

func TestExport_CaptureFailureRestoresVisibility(t *testing.T) {
	r := &fakeRegion{captureErr: errors.New("canvas tainted")}
	sink := &memSink{}

	_, err := NewExporter(sink).Export(context.Background(), r, "AAPL")
	require.Error(t, err)

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "capture", exportErr.Op)
	assert.False(t, r.visible)
	assert.Equal(t, 1, r.hides)
	assert.Empty(t, sink.name)
}

func TestExport_SaveFailure(t *testing.T) {
	r := &fakeRegion{}
	_, err := NewExporter(&memSink{err: errors.New("disk full")}).Export(context.Background(), r, "AAPL")

	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "save", exportErr.Op)
	assert.False(t, r.visible)
}

func TestWithExportOnly_RestoresOnPanic(t *testing.T) {
	r := &fakeRegion{panicMsg: "boom"}

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithExportOnly(context.Background(), r, func(ctx context.Context) error {
			_, err := r.Capture(ctx, 1)
			return err
		})
	})
	assert.False(t, r.visible)
	assert.Equal(t, 1, r.hides)
}

func TestWithExportOnly_RestoresAfterCancel(t *testing.T) {
	r := &fakeRegion{}
	ctx, cancel := context.WithCancel(context.Background())

	err := WithExportOnly(ctx, r, func(context.Context) error {
		cancel()
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, r.visible, "hide must run even though the caller's context is cancelled")
}

func TestWithExportOnly_ShowFailure(t *testing.T) {
	r := &fakeRegion{showErr: errors.New("detached")}
	called := false

	err := WithExportOnly(context.Background(), r, func(context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, 1, r.hides)
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")

	path, err := DirSink{Dir: dir}.Save(context.Background(), "AAPL-earnings-analysis.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AAPL-earnings-analysis.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
}
