package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func newLaidOutCompare(t *testing.T) (*CompareView, *compareRenderer) {
	t.Helper()
	test.NewApp()

	c := NewCompareView()
	c.SetImages(image.NewNRGBA(image.Rect(0, 0, 100, 100)), image.NewNRGBA(image.Rect(0, 0, 100, 100)))
	r := test.WidgetRenderer(c).(*compareRenderer)
	c.Resize(fyne.NewSize(300, 200))

	return c, r
}

func TestCompareView_StartsHalfway(t *testing.T) {
	c, r := newLaidOutCompare(t)

	assert.InDelta(t, 50, c.Percent(), 1e-9)
	// the 100x100 image fills a 200x200 box centered at x=50
	assert.InDelta(t, 100, r.after.Size().Width, 1e-3)
	assert.InDelta(t, 149, r.divider.Position().X, 1e-3)
}

func TestCompareView_DragMovesDivider(t *testing.T) {
	c, r := newLaidOutCompare(t)

	c.MouseDown(primaryAt(100, 10))
	assert.InDelta(t, 25, c.Percent(), 1e-9)
	assert.InDelta(t, 50, r.after.Size().Width, 1e-3)

	c.Dragged(dragTo(-400, 10))
	assert.InDelta(t, 0, c.Percent(), 1e-9)

	c.Dragged(dragTo(900, 10))
	assert.InDelta(t, 100, c.Percent(), 1e-9)
	assert.InDelta(t, 200, r.after.Size().Width, 1e-3)

	c.MouseUp(primaryAt(900, 10))
	c.Dragged(dragTo(150, 10))
	assert.InDelta(t, 100, c.Percent(), 1e-9)
}

func TestCompareView_SecondaryButtonIsIgnored(t *testing.T) {
	c, _ := newLaidOutCompare(t)

	c.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(60, 10)},
		Button:     desktop.MouseButtonSecondary,
	})

	assert.InDelta(t, 50, c.Percent(), 1e-9)
}

func TestCompareView_NoImagesHidesAfterLayer(t *testing.T) {
	c, r := newLaidOutCompare(t)

	c.SetImages(nil, nil)

	assert.True(t, r.after.Hidden)
	assert.True(t, r.divider.Hidden)
}

func TestCropWidth(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 10))

	assert.Equal(t, 25, cropWidth(img, 25).Bounds().Dx())
	assert.Equal(t, 100, cropWidth(img, 100).Bounds().Dx())
	// never empty
	assert.Equal(t, 1, cropWidth(img, 0).Bounds().Dx())
}
