package ui

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"unmark/internal/core/domain/mask"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryAt(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func dragTo(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func decodeMask(t *testing.T, e *MaskEditor) image.Image {
	t.Helper()
	data, err := e.Mask()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func isMasked(img image.Image, x, y int) bool {
	_, _, _, a := img.At(x, y).RGBA()
	return a != 0
}

// newLaidOutEditor shows a 200x100 image in a 400x300 widget: scale 2, offset 50 from the top.
func newLaidOutEditor(t *testing.T) *MaskEditor {
	t.Helper()
	test.NewApp()

	e := NewMaskEditor()
	require.NoError(t, e.SetImage(image.NewNRGBA(image.Rect(0, 0, 200, 100))))
	test.WidgetRenderer(e)
	e.Resize(fyne.NewSize(400, 300))

	return e
}

func TestMaskEditor_PaintsAtNativePosition(t *testing.T) {
	e := newLaidOutEditor(t)

	e.MouseDown(primaryAt(200, 150))
	e.MouseUp(primaryAt(200, 150))

	m := decodeMask(t, e)
	assert.Equal(t, image.Rect(0, 0, 200, 100), m.Bounds())
	assert.True(t, isMasked(m, 100, 50))
	assert.False(t, isMasked(m, 10, 10))
}

func TestMaskEditor_DragPaintsSegment(t *testing.T) {
	e := newLaidOutEditor(t)

	e.MouseDown(primaryAt(200, 150))
	e.Dragged(dragTo(300, 150))
	e.DragEnd()

	m := decodeMask(t, e)
	assert.True(t, isMasked(m, 100, 50))
	assert.True(t, isMasked(m, 125, 50))
	assert.True(t, isMasked(m, 150, 50))
	assert.False(t, isMasked(m, 190, 50))
}

func TestMaskEditor_IgnoresSecondaryButtonAndStrayDrags(t *testing.T) {
	e := newLaidOutEditor(t)

	e.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(200, 150)},
		Button:     desktop.MouseButtonSecondary,
	})
	e.Dragged(dragTo(300, 150))

	m := decodeMask(t, e)
	assert.False(t, isMasked(m, 100, 50))
	assert.False(t, isMasked(m, 150, 50))
}

func TestMaskEditor_EraseAndClear(t *testing.T) {
	e := newLaidOutEditor(t)

	e.MouseDown(primaryAt(200, 150))
	e.MouseUp(primaryAt(200, 150))
	e.MouseDown(primaryAt(100, 150))
	e.MouseUp(primaryAt(100, 150))

	e.SetTool(mask.Erase)
	e.MouseDown(primaryAt(200, 150))
	e.MouseUp(primaryAt(200, 150))

	m := decodeMask(t, e)
	assert.False(t, isMasked(m, 100, 50))
	assert.True(t, isMasked(m, 50, 50))

	e.ClearMask()
	m = decodeMask(t, e)
	assert.False(t, isMasked(m, 50, 50))
}

func TestMaskEditor_InputBeforeLayoutIsIgnored(t *testing.T) {
	test.NewApp()

	e := NewMaskEditor()
	require.NoError(t, e.SetImage(image.NewNRGBA(image.Rect(0, 0, 20, 20))))

	e.MouseDown(primaryAt(10, 10))

	m := decodeMask(t, e)
	assert.False(t, isMasked(m, 10, 10))
}

func TestMaskEditor_UnloadKeepsBrush(t *testing.T) {
	e := newLaidOutEditor(t)
	assert.Equal(t, 40, e.SetBrushSize(40))
	e.SetTool(mask.Erase)

	e.Unload()

	assert.False(t, e.Loaded())
	assert.Equal(t, 40, e.surface.BrushSize())
	assert.Equal(t, mask.Erase, e.surface.Tool())
	_, err := e.Mask()
	assert.Error(t, err)
}
