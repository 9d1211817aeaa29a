package ui

import (
	"fmt"
	"io"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"colorbook/internal/config"
	"colorbook/internal/editor"
	"colorbook/internal/export"
	"colorbook/internal/favorites"
	"colorbook/internal/watch"
)

// Options select what the window opens with.
type Options struct {
	Config config.Config
	// Image is line art to color in the drawing editor.
	Image string
	// SVG opens the fill editor instead of the drawing editor.
	SVG string
	// Watch reloads Image when it changes on disk.
	Watch bool
	// OnFavorite receives paintings the user saves as favorites.
	OnFavorite func(favorites.Favorite)
}

func RunApp(opts Options) error {
	myApp := app.New()
	myWindow := myApp.NewWindow("Coloring Book")
	myWindow.Resize(fyne.NewSize(1024, 768))

	status := widget.NewLabel("Ready")
	var (
		content fyne.CanvasObject
		closer  io.Closer
		err     error
	)
	if opts.SVG != "" {
		content, err = fillContent(myWindow, opts, status)
	} else {
		content, closer, err = drawContent(myWindow, opts, status)
	}
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	myWindow.SetContent(content)
	myWindow.ShowAndRun()
	return nil
}

func loadArt(s *editor.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open line art: %w", err)
	}
	defer f.Close()
	return s.LoadBackground(f)
}

func drawContent(w fyne.Window, opts Options, status *widget.Label) (fyne.CanvasObject, io.Closer, error) {
	sess := editor.NewSession(opts.Config.EditorOptions())
	board := NewBoard(sess)

	if opts.Image != "" {
		if err := loadArt(sess, opts.Image); err != nil {
			status.SetText("Line art not loaded, coloring freely")
		}
	}

	var closer io.Closer
	if opts.Watch && opts.Image != "" {
		fw, err := watch.Watch(opts.Image, func(path string) {
			fyne.Do(func() {
				if err := loadArt(sess, path); err != nil {
					status.SetText("Reload failed: " + err.Error())
					return
				}
				sess.ResetImage()
				board.changed()
				status.SetText("Line art reloaded")
			})
		})
		if err != nil {
			log.Printf("[UI] watch disabled: %v", err)
		} else {
			closer = fw
		}
	}

	act := Actions{
		Window:     w,
		Save:       func() { savePainting(w, sess, status) },
		SaveVector: func() { saveStrokesPDF(w, sess, status) },
		ResetImage: func() {
			sess.ResetImage()
			board.changed()
			status.SetText("Image reset")
		},
	}
	if opts.OnFavorite != nil {
		act.Favorite = func() { saveFavorite(w, sess, opts.OnFavorite, status) }
	}
	toolbar := NewToolbar(board, opts.Config.Palette, act)

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		sess.Undo()
		board.changed()
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		sess.Redo()
		board.changed()
	})

	return container.NewBorder(toolbar, status, nil, nil, board), closer, nil
}

func fillContent(w fyne.Window, opts Options, status *widget.Label) (fyne.CanvasObject, error) {
	f, err := os.Open(opts.SVG)
	if err != nil {
		return nil, fmt.Errorf("open svg: %w", err)
	}
	defer f.Close()

	cfg := opts.Config
	sess, err := editor.NewFillSession(f, cfg.Canvas.Width, cfg.Canvas.Height, cfg.Color)
	if err != nil {
		return nil, err
	}
	board := NewFillBoard(sess)

	save := func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer wc.Close()
			if err := sess.Save(wc); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Saved " + wc.URI().Name())
		}, w)
	}
	toolbar := NewFillToolbar(board, cfg.Palette, Actions{Window: w, Save: save})

	top := fyne.CanvasObject(toolbar)
	if open := sess.OpenPaths(); len(open) > 0 {
		warn := widget.NewLabel(fmt.Sprintf("Warning: %d paths are not closed, fills may spill over.", len(open)))
		warn.Importance = widget.WarningImportance
		top = container.NewVBox(toolbar, warn)
	}
	return container.NewBorder(top, status, nil, nil, board), nil
}

func savePainting(w fyne.Window, s *editor.Session, status *widget.Label) {
	dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()

		name := wc.URI().Name()
		if err := export.Save(wc, name, s.Painting()); err != nil {
			log.Printf("[UI] save %s: %v", name, err)
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + name)
	}, w)
}

// saveStrokesPDF saves the strokes alone as vector paths for printing.
func saveStrokesPDF(w fyne.Window, s *editor.Session, status *widget.Label) {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()

		name := wc.URI().Name()
		if err := s.WriteStrokesPDF(wc); err != nil {
			log.Printf("[UI] save strokes %s: %v", name, err)
			dialog.ShowError(err, w)
			return
		}
		log.Printf("[UI] saved strokes %s", name)
		status.SetText("Saved strokes to " + name)
	}, w)
	d.SetFileName("strokes.pdf")
	d.Show()
}

func saveFavorite(w fyne.Window, s *editor.Session, onFavorite func(favorites.Favorite), status *widget.Label) {
	name := widget.NewEntry()
	desc := widget.NewMultiLineEntry()
	tags := widget.NewEntry()
	tags.SetPlaceHolder("flowers, spring")

	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Description", desc),
		widget.NewFormItem("Tags", tags),
	}
	dialog.ShowForm("Save to favorites", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		snap, err := s.Snapshot()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		fav := favorites.New(name.Text, snap.Image, desc.Text, favorites.ParseTags(tags.Text))
		if err := fav.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		onFavorite(fav)
		status.SetText("Saved " + fav.Name + " to favorites")
	}, w)
}
