package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"unmark/internal/adapters/imaging"
	"unmark/internal/core/domain/slider"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CompareView overlays the cleaned image on the original, revealed up to a draggable divider.
type CompareView struct {
	widget.BaseWidget

	slider *slider.Slider
	before image.Image
	after  image.Image
}

var _ fyne.Draggable = (*CompareView)(nil)
var _ desktop.Mouseable = (*CompareView)(nil)

func NewCompareView() *CompareView {
	c := &CompareView{slider: slider.New()}
	c.ExtendBaseWidget(c)
	return c
}

// SetImages shows before and after. Both are stretched over the same box, so their sizes may differ.
func (c *CompareView) SetImages(before, after image.Image) {
	c.before = before
	c.after = after
	c.Refresh()
}

func (c *CompareView) Percent() float64 {
	return c.slider.Percent()
}

func (c *CompareView) MouseDown(ev *desktop.MouseEvent) {
	c.slider.PointerDown(pointerEvent(ev.Position, ev.Button))
	c.Refresh()
}

func (c *CompareView) Dragged(ev *fyne.DragEvent) {
	if !c.slider.Dragging() {
		return
	}

	c.slider.PointerMove(pointerEvent(ev.Position, desktop.MouseButtonPrimary))
	c.Refresh()
}

func (c *CompareView) MouseUp(ev *desktop.MouseEvent) {
	c.slider.PointerUp(pointerEvent(ev.Position, ev.Button))
}

func (c *CompareView) DragEnd() {
	c.slider.PointerUp(pointerEvent(fyne.Position{}, desktop.MouseButtonPrimary))
}

func (c *CompareView) CreateRenderer() fyne.WidgetRenderer {
	r := &compareRenderer{
		view:       c,
		background: canvas.NewRectangle(color.Gray{Y: 40}),
		before:     canvas.NewImageFromImage(nil),
		after:      canvas.NewImageFromImage(nil),
		divider:    canvas.NewRectangle(color.White),
	}
	r.before.FillMode = canvas.ImageFillStretch
	r.after.FillMode = canvas.ImageFillStretch

	return r
}

type compareRenderer struct {
	view       *CompareView
	background *canvas.Rectangle
	before     *canvas.Image
	after      *canvas.Image
	divider    *canvas.Rectangle

	box fyne.Size
	pos fyne.Position
}

func (r *compareRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.before, r.after, r.divider}
}

func (r *compareRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	v := r.view
	if v.before == nil {
		r.box = fyne.Size{}
		v.slider.SetContainer(0, 0)
		r.place()
		return
	}

	b := v.before.Bounds()
	w, h := imaging.Fit(b.Dx(), b.Dy(), float64(size.Width), float64(size.Height))
	r.box = fyne.NewSize(float32(w), float32(h))
	r.pos = fyne.NewPos((size.Width-r.box.Width)/2, (size.Height-r.box.Height)/2)
	v.slider.SetContainer(float64(r.pos.X), w)

	r.before.Move(r.pos)
	r.before.Resize(r.box)
	r.place()
}

// place sizes the after layer and the divider from the slider.
func (r *compareRenderer) place() {
	v := r.view
	r.after.Hidden = v.after == nil || r.box.Width <= 0
	r.divider.Hidden = r.after.Hidden
	if r.after.Hidden {
		return
	}

	afterW := float32(v.slider.AfterWidth())
	r.after.Image = cropWidth(v.after, v.slider.Percent())
	r.after.Move(r.pos)
	r.after.Resize(fyne.NewSize(afterW, r.box.Height))

	r.divider.Move(fyne.NewPos(r.pos.X+float32(v.slider.DividerX())-1, r.pos.Y))
	r.divider.Resize(fyne.NewSize(2, r.box.Height))
	r.after.Refresh()
}

func (r *compareRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *compareRenderer) Refresh() {
	r.before.Image = r.view.before
	r.Layout(r.view.Size())
	r.before.Refresh()
}

func (r *compareRenderer) Destroy() {}

// cropWidth returns the left percent of img.
func cropWidth(img image.Image, percent float64) image.Image {
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * percent / 100))
	rect := image.Rect(b.Min.X, b.Min.Y, b.Min.X+max(1, w), b.Max.Y)

	if sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
