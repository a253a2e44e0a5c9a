package gui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itchio/dragtoinstall/archive"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/installer"
	"github.com/itchio/dragtoinstall/progress"
	"github.com/pkg/errors"
)

// presenter shows the controller's reports in the window. The controller
// calls it from the installation goroutine, so everything touching
// widgets goes through fyne.Do.
type presenter struct {
	w *Window

	dialog *dialog.CustomDialog
	bar    *widget.ProgressBar
	label  *widget.Label
}

var _ installer.Presenter = (*presenter)(nil)

func (p *presenter) StartProgress(title string) {
	fyne.Do(func() {
		p.bar = widget.NewProgressBar()
		p.label = widget.NewLabel("Preparing...")
		p.label.Truncation = fyne.TextTruncateEllipsis
		content := container.NewVBox(p.label, p.bar)

		p.dialog = dialog.NewCustomWithoutButtons(title, content, p.w.win)
		p.dialog.Resize(fyne.NewSize(360, 120))
		p.w.setBusy(true)
		p.dialog.Show()
	})
}

func (p *presenter) Progress(st progress.State) {
	fyne.Do(func() {
		if p.bar == nil {
			return
		}
		p.bar.SetValue(st.Fraction())
		p.label.SetText(st.Current)
	})
}

func (p *presenter) EndProgress() {
	fyne.Do(func() {
		if p.dialog != nil {
			p.dialog.Hide()
		}
		p.dialog = nil
		p.bar = nil
		p.label = nil
		p.w.setBusy(false)
	})
}

func (p *presenter) ReportSuccess(dir string) {
	slog.Info("installation complete", "dir", dir)
	fyne.Do(func() {
		dialog.ShowInformation("Installation complete",
			fmt.Sprintf("The app was installed to:\n%s", dragdrop.Wrap(dir, 40)), p.w.win)
	})
}

func (p *presenter) ReportFailure(err error) {
	slog.Error("installation failed", "error", fmt.Sprintf("%+v", err))
	fyne.Do(func() {
		dialog.ShowError(userError(err), p.w.win)
	})
}

func userError(err error) error {
	if errors.Is(err, installer.ErrBusy) {
		return errors.New("Please wait for the current installation to finish before picking another folder.")
	}
	if errors.Is(err, archive.ErrArchiveNotFound) {
		return errors.New("The application archive is missing from this installer. Please download it again.")
	}

	var ee *archive.ExtractError
	if errors.As(err, &ee) {
		return errors.Errorf("Installation failed: %s", ee.Error())
	}
	return err
}

func (p *presenter) ShowHint(msg string) {
	fyne.Do(func() {
		dialog.ShowInformation("How to install", msg, p.w.win)
	})
}

func (p *presenter) LocationChanged(appearance dragdrop.Appearance) {
	slog.Debug("installation directory changed", "dir", p.w.c.Dir())
	fyne.Do(func() {
		p.w.folder.setAppearance(appearance)
		p.w.location.SetText(p.w.c.Dir())
	})
}
