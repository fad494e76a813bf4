package ui

import (
	"errors"
	"image"
	"image/color"

	"unmark/internal/adapters/imaging"
	"unmark/internal/core/domain"
	"unmark/internal/core/domain/mask"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
)

// MaskEditor shows an image with the mask painted over it and feeds mouse input into a mask.Surface.
type MaskEditor struct {
	widget.BaseWidget

	surface *mask.Surface
	loaded  bool
	// gen counts loaded images so the renderer knows when to swap its source.
	gen int
}

var _ fyne.Widget = (*MaskEditor)(nil)
var _ fyne.Draggable = (*MaskEditor)(nil)
var _ desktop.Mouseable = (*MaskEditor)(nil)

func NewMaskEditor() *MaskEditor {
	e := &MaskEditor{surface: mask.NewSurface()}
	e.ExtendBaseWidget(e)
	return e
}

// SetImage loads img and clears the mask. Input is accepted after the next layout.
func (e *MaskEditor) SetImage(img image.Image) error {
	if err := e.surface.Load(img); err != nil {
		return err
	}

	e.loaded = true
	e.gen++
	e.Refresh()
	return nil
}

// Unload drops the image and the mask. Brush size and tool are kept.
func (e *MaskEditor) Unload() {
	old := e.surface
	e.surface = mask.NewSurface()
	e.surface.SetBrushSize(old.BrushSize())
	e.surface.SetTool(old.Tool())
	e.loaded = false
	e.gen++
	e.Refresh()
}

func (e *MaskEditor) Loaded() bool {
	return e.loaded
}

func (e *MaskEditor) SetBrushSize(px int) int {
	return e.surface.SetBrushSize(px)
}

func (e *MaskEditor) SetTool(tool mask.Tool) {
	e.surface.SetTool(tool)
}

func (e *MaskEditor) ClearMask() {
	e.surface.Clear()
	e.Refresh()
}

// Mask encodes the current mask as a PNG of the image's native size.
func (e *MaskEditor) Mask() ([]byte, error) {
	return e.surface.Submit()
}

func pointerEvent(pos fyne.Position, button desktop.MouseButton) domain.PointerEvent {
	return domain.PointerEvent{
		ID:      int(button),
		X:       float64(pos.X),
		Y:       float64(pos.Y),
		Primary: button == desktop.MouseButtonPrimary,
	}
}

func (e *MaskEditor) MouseDown(ev *desktop.MouseEvent) {
	err := e.surface.PointerDown(pointerEvent(ev.Position, ev.Button))
	if err != nil {
		if !errors.Is(err, mask.ErrLayoutPending) && !errors.Is(err, mask.ErrNoImage) {
			log.Error().Err(err).Msg("mask pointer down")
		}
		return
	}

	e.Refresh()
}

// Dragged events carry no button; only the primary button starts a stroke, so they belong to it.
func (e *MaskEditor) Dragged(ev *fyne.DragEvent) {
	if !e.surface.Drawing() {
		return
	}

	e.surface.PointerMove(pointerEvent(ev.Position, desktop.MouseButtonPrimary))
	e.Refresh()
}

func (e *MaskEditor) MouseUp(ev *desktop.MouseEvent) {
	e.surface.PointerUp(pointerEvent(ev.Position, ev.Button))
}

func (e *MaskEditor) DragEnd() {
	e.surface.PointerUp(pointerEvent(fyne.Position{}, desktop.MouseButtonPrimary))
}

func (e *MaskEditor) CreateRenderer() fyne.WidgetRenderer {
	r := &maskEditorRenderer{
		editor:     e,
		background: canvas.NewRectangle(color.Gray{Y: 40}),
		source:     canvas.NewImageFromImage(nil),
		overlay:    canvas.NewImageFromImage(nil),
	}
	r.source.FillMode = canvas.ImageFillStretch
	r.overlay.FillMode = canvas.ImageFillStretch
	r.overlay.ScaleMode = canvas.ImageScaleFastest

	return r
}

type maskEditorRenderer struct {
	editor     *MaskEditor
	background *canvas.Rectangle
	source     *canvas.Image
	overlay    *canvas.Image
	gen        int
}

func (r *maskEditorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.source, r.overlay}
}

// Layout centers the image in size and hands the rendered box to the surface.
func (r *maskEditorRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	s := r.editor.surface
	nativeW, nativeH := s.Size()
	w, h := imaging.Fit(nativeW, nativeH, float64(size.Width), float64(size.Height))

	pos := fyne.NewPos((size.Width-float32(w))/2, (size.Height-float32(h))/2)
	box := fyne.NewSize(float32(w), float32(h))
	r.source.Move(pos)
	r.source.Resize(box)
	r.overlay.Move(pos)
	r.overlay.Resize(box)

	if !r.editor.loaded {
		return
	}

	if err := s.SetDisplayBox(float64(pos.X), float64(pos.Y), w, h); err != nil {
		log.Debug().Err(err).Msg("mask editor has no display box yet")
	}
}

func (r *maskEditorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *maskEditorRenderer) Refresh() {
	s := r.editor.surface
	if r.gen != r.editor.gen {
		r.gen = r.editor.gen
		r.source.Image = s.Source()
		r.Layout(r.editor.Size())
		r.source.Refresh()
	}

	r.overlay.Image = s.Overlay()
	r.overlay.Refresh()
}

func (r *maskEditorRenderer) Destroy() {}

const (
	paintLabel = "Paint"
	eraseLabel = "Erase"
)

// newMaskTools builds the brush controls of editor. onApply is called by the Apply Brush Remove button.
func newMaskTools(editor *MaskEditor, onApply func()) (fyne.CanvasObject, *widget.Button) {
	size := widget.NewLabel(formatBrush(mask.DefaultBrush))
	brush := widget.NewSlider(mask.MinBrush, mask.MaxBrush)
	brush.Step = 1
	brush.OnChanged = func(v float64) {
		size.SetText(formatBrush(editor.SetBrushSize(int(v))))
	}
	brush.SetValue(mask.DefaultBrush)

	tool := widget.NewRadioGroup([]string{paintLabel, eraseLabel}, func(s string) {
		if s == eraseLabel {
			editor.SetTool(mask.Erase)
			return
		}
		editor.SetTool(mask.Paint)
	})
	tool.Horizontal = true
	tool.Required = true
	tool.SetSelected(paintLabel)

	clearBtn := widget.NewButton("Clear Mask", editor.ClearMask)
	apply := widget.NewButton("Apply Brush Remove", onApply)
	apply.Importance = widget.HighImportance

	return widgetRow(widget.NewLabel("Brush:"), fixedWidth(brush, 180), size, tool, clearBtn, apply), apply
}
