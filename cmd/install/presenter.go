package install

import (
	"github.com/itchio/dragtoinstall/comm"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/installer"
	"github.com/itchio/dragtoinstall/progress"
)

// presenter shows installation progress in the terminal. Failures
// are left to the command's caller, which exits with them.
type presenter struct{}

var _ installer.Presenter = (*presenter)(nil)

func (p *presenter) StartProgress(title string) {
	comm.Opf("%s", title)
	comm.StartProgress()
}

func (p *presenter) Progress(st progress.State) {
	comm.ProgressLabel(st.Current)
	comm.Progress(st.Fraction())
}

func (p *presenter) EndProgress() {
	comm.EndProgress()
}

func (p *presenter) ReportSuccess(dir string) {
	comm.ResultOrPrint(&Result{Dir: dir}, func() {
		comm.Statf("Installed to %s", dir)
	})
}

func (p *presenter) ReportFailure(err error) {
	comm.Debugf("Installation failed: %+v", err)
}

func (p *presenter) ShowHint(msg string) {
	comm.Warn(msg)
}

func (p *presenter) LocationChanged(appearance dragdrop.Appearance) {
	comm.Debugf("%s", appearance.Tooltip)
}
