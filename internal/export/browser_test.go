package export

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserRegion_ScriptErrorBlocksCapture(t *testing.T) {
	b := &BrowserRegion{}
	assert.Empty(t, b.ScriptErrors())

	b.recordScriptError(&runtime.ExceptionDetails{
		Text:      "Uncaught",
		Exception: &runtime.RemoteObject{Description: "ReferenceError: chart is not defined"},
	})
	b.recordScriptError(&runtime.ExceptionDetails{Text: "Script error."})
	assert.Equal(t, []string{"ReferenceError: chart is not defined", "Script error."}, b.ScriptErrors())

	_, err := b.Capture(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ReferenceError")
}
