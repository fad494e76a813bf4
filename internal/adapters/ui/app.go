// Package ui is the desktop front end: upload list, results, mask editor and before/after comparison.
package ui

import (
	"context"
	"fmt"
	"image"
	"io"

	"unmark/internal/adapters/imaging"
	"unmark/internal/core/domain"
	"unmark/internal/core/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
)

const (
	previewSize   = 120
	thumbnailSize = 480
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// View is the main window. All fields are touched on the fyne event goroutine only.
type View struct {
	ctx     context.Context
	session *service.Session
	window  fyne.Window

	tabs     *container.AppTabs
	compTab  *container.TabItem
	previews *fyne.Container
	results  *fyne.Container
	message  *widget.Label
	zoom     *widget.Label
	remove   *widget.Button
	reset    *widget.Button
	apply    *widget.Button
	target   *widget.Select

	editor  *MaskEditor
	compare *CompareView

	maskIndex int
	thumbs    map[string]image.Image
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, session *service.Session) {
	a := app.NewWithID("unmark")
	v := NewView(ctx, a, session)

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	v.window.ShowAndRun()
}

func NewView(ctx context.Context, a fyne.App, session *service.Session) *View {
	v := &View{
		ctx:       ctx,
		session:   session,
		window:    a.NewWindow("Watermark Remover"),
		editor:    NewMaskEditor(),
		compare:   NewCompareView(),
		previews:  container.NewHBox(),
		results:   container.NewVBox(),
		message:   widget.NewLabel(""),
		zoom:      widget.NewLabel(""),
		maskIndex: -1,
		thumbs:    make(map[string]image.Image),
	}
	v.message.Importance = widget.DangerImportance
	v.message.Wrapping = fyne.TextWrapWord

	session.OnChange = func() {
		fyne.Do(v.refresh)
	}

	v.window.SetContent(v.build())
	v.window.Resize(fyne.NewSize(1024, 768))
	v.window.SetOnDropped(v.dropped)
	v.refresh()

	return v
}

func (v *View) Window() fyne.Window {
	return v.window
}

func (v *View) build() fyne.CanvasObject {
	open := widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), v.openFile)
	v.remove = widget.NewButton("Remove Watermark", v.removeAll)
	v.remove.Importance = widget.HighImportance
	v.reset = widget.NewButtonWithIcon("Reset", theme.ContentClearIcon(), v.resetAll)

	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { v.session.ZoomOut() })
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { v.session.ZoomIn() })

	toolbar := widgetRow(open, v.remove, v.reset, layout.NewSpacer(), zoomOut, v.zoom, zoomIn)

	images := container.NewBorder(
		container.NewVBox(toolbar, v.message, container.NewHScroll(v.previews), widget.NewSeparator(),
			widget.NewLabelWithStyle("Results", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})),
		nil, nil, nil,
		container.NewVScroll(v.results),
	)

	v.target = widget.NewSelect(nil, v.selectMaskTarget)
	v.target.PlaceHolder = "Choose an image to mask"
	tools, apply := newMaskTools(v.editor, v.applyMask)
	v.apply = apply
	editor := container.NewBorder(container.NewVBox(v.target, tools), nil, nil, nil, v.editor)

	v.compTab = container.NewTabItem("Compare", v.compare)
	v.tabs = container.NewAppTabs(
		container.NewTabItem("Images", images),
		container.NewTabItem("Brush Remove", editor),
		v.compTab,
	)

	return v.tabs
}

// refresh rebuilds the widgets that mirror the session.
func (v *View) refresh() {
	uploads := v.session.Uploads()
	results := v.session.Results()
	running := v.session.Running()
	zoom := v.session.Zoom()

	v.message.SetText(v.session.Message())
	v.zoom.SetText(fmt.Sprintf("%.0f%%", zoom*100))

	side := float32(previewSize * zoom)
	v.previews.RemoveAll()
	for i, u := range uploads {
		img := canvas.NewImageFromImage(v.thumbnail(fmt.Sprintf("upload:%d", i), uploadData(u)))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(side, side))
		v.previews.Add(container.NewVBox(img, widget.NewLabel(u.Name)))
	}
	v.previews.Refresh()

	v.results.RemoveAll()
	for _, r := range results {
		v.results.Add(v.resultRow(r, uploads))
	}
	v.results.Refresh()

	options := make([]string, len(uploads))
	for i, u := range uploads {
		options[i] = targetLabel(i, u)
	}
	v.target.SetOptions(options)
	if v.maskIndex >= len(uploads) {
		v.maskIndex = -1
		v.target.ClearSelected()
	}

	setEnabled(v.remove, !running && len(uploads) > 0)
	setEnabled(v.reset, !running)
	setEnabled(v.apply, !running && v.maskIndex >= 0 && v.editor.Loaded())
}

func (v *View) resultRow(r domain.Result, uploads []domain.Upload) fyne.CanvasObject {
	key := ""
	if r.Path != "" {
		key = "result:" + r.Path
	}

	img := canvas.NewImageFromImage(v.thumbnail(key, func() ([]byte, error) { return v.session.ResultData(r) }))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(previewSize, previewSize))

	compare := widget.NewButton("Compare", func() {
		if r.Index < 0 || r.Index >= len(uploads) {
			return
		}
		v.showCompare(uploads[r.Index].Data, r)
	})
	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { v.saveResult(r) })

	return widgetRow(img, widget.NewLabel(r.Name), layout.NewSpacer(), compare, save)
}

func uploadData(u domain.Upload) func() ([]byte, error) {
	return func() ([]byte, error) { return u.Data, nil }
}

// thumbnail decodes the loaded bytes into a preview, cached under key when key is not empty.
func (v *View) thumbnail(key string, load func() ([]byte, error)) image.Image {
	if img, ok := v.thumbs[key]; ok && key != "" {
		return img
	}

	data, err := load()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not load preview")
		return nil
	}

	img, _, err := imaging.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not decode preview")
		return nil
	}

	thumb := imaging.Thumbnail(img, thumbnailSize, thumbnailSize)
	if key != "" {
		v.thumbs[key] = thumb
	}

	return thumb
}

func (v *View) openFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		upload, err := readUpload(reader.URI().Name(), reader)
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}

		v.session.Select([]domain.Upload{upload})
	}, v.window)
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	d.Show()
}

// dropped accepts several files at once.
func (v *View) dropped(_ fyne.Position, uris []fyne.URI) {
	var uploads []domain.Upload
	for _, uri := range uris {
		reader, err := storage.Reader(uri)
		if err != nil {
			log.Warn().Err(err).Str("uri", uri.String()).Msg("could not open dropped file")
			continue
		}

		upload, err := readUpload(uri.Name(), reader)
		_ = reader.Close()
		if err != nil {
			log.Warn().Err(err).Str("uri", uri.String()).Msg("could not read dropped file")
			continue
		}

		uploads = append(uploads, upload)
	}

	v.session.Select(uploads)
}

// readUpload builds an upload from r. The MIME type is sniffed from the content.
func readUpload(name string, r io.Reader) (domain.Upload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("reading %s: %w", name, err)
	}

	return domain.Upload{
		Name: name,
		MIME: imaging.MIMEType(data),
		Size: int64(len(data)),
		Data: data,
	}, nil
}

func (v *View) removeAll() {
	setEnabled(v.remove, false)

	go func() {
		if err := v.session.RemoveAll(v.ctx); err != nil {
			log.Err(err).Msg("watermark removal stopped")
		}
	}()
}

func (v *View) resetAll() {
	if err := v.session.Reset(); err != nil {
		log.Err(err).Msg("reset refused")
		return
	}

	clear(v.thumbs)
	v.maskIndex = -1
	v.target.ClearSelected()
	v.editor.Unload()
	v.compare.SetImages(nil, nil)
	v.refresh()
}

func (v *View) selectMaskTarget(label string) {
	uploads := v.session.Uploads()
	for i, u := range uploads {
		if targetLabel(i, u) != label {
			continue
		}

		img, _, err := imaging.Decode(u.Data)
		if err != nil {
			v.message.SetText(domain.UserMessage(err))
			return
		}

		if err := v.editor.SetImage(img); err != nil {
			v.message.SetText(domain.UserMessage(err))
			return
		}

		v.maskIndex = i
		v.refresh()
		return
	}
}

func (v *View) applyMask() {
	maskPNG, err := v.editor.Mask()
	if err != nil {
		v.message.SetText(domain.UserMessage(err))
		return
	}

	index := v.maskIndex
	setEnabled(v.apply, false)

	go func() {
		r, err := v.session.Inpaint(v.ctx, index, maskPNG)
		if err != nil {
			log.Err(err).Int("index", index).Msg("brush remove failed")
			return
		}

		uploads := v.session.Uploads()
		if r.Index >= len(uploads) {
			return
		}
		fyne.Do(func() {
			v.showCompare(uploads[r.Index].Data, r)
		})
	}()
}

func (v *View) showCompare(before []byte, r domain.Result) {
	b, _, err := imaging.Decode(before)
	if err != nil {
		v.message.SetText(domain.UserMessage(err))
		return
	}

	after, err := v.session.ResultData(r)
	if err != nil {
		v.message.SetText(domain.UserMessage(err))
		return
	}

	a, _, err := imaging.Decode(after)
	if err != nil {
		v.message.SetText(domain.UserMessage(err))
		return
	}

	v.compare.SetImages(b, a)
	v.tabs.Select(v.compTab)
}

func (v *View) saveResult(r domain.Result) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, v.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := v.writeResult(writer, r); err != nil {
			dialog.ShowError(err, v.window)
			return
		}

		log.Info().Str("file", writer.URI().String()).Msg("result saved")
	}, v.window)
	d.SetFileName(r.Name)
	d.Show()
}

// writeResult copies the stored result to w.
func (v *View) writeResult(w io.Writer, r domain.Result) error {
	data, err := v.session.ResultData(r)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("saving %s: %w", r.Name, err)
	}

	return nil
}

func targetLabel(i int, u domain.Upload) string {
	return fmt.Sprintf("%d. %s", i+1, u.Name)
}

func formatBrush(px int) string {
	return fmt.Sprintf("%dpx", px)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
		return
	}
	b.Disable()
}

func widgetRow(objects ...fyne.CanvasObject) *fyne.Container {
	return container.NewHBox(objects...)
}

func fixedWidth(o fyne.CanvasObject, width float32) fyne.CanvasObject {
	return container.New(layout.NewGridWrapLayout(fyne.NewSize(width, o.MinSize().Height)), o)
}
