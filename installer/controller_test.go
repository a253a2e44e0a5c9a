package installer

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/itchio/arkive/zip"
	"github.com/itchio/dragtoinstall/archive"
	"github.com/itchio/dragtoinstall/dragdrop"
	"github.com/itchio/dragtoinstall/pathstore"
	"github.com/itchio/dragtoinstall/progress"
	"github.com/itchio/dragtoinstall/resources"
	"github.com/itchio/savior"
	"github.com/itchio/wharf/wtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresenter struct {
	calls     []string
	progress  []progress.State
	successes []string
	failures  []error
	hints     []string
	tooltips  []string
}

var _ Presenter = (*fakePresenter)(nil)

func (fp *fakePresenter) StartProgress(title string) {
	fp.calls = append(fp.calls, "start")
}

func (fp *fakePresenter) Progress(st progress.State) {
	fp.calls = append(fp.calls, "progress")
	fp.progress = append(fp.progress, st)
}

func (fp *fakePresenter) EndProgress() {
	fp.calls = append(fp.calls, "end")
}

func (fp *fakePresenter) ReportSuccess(dir string) {
	fp.calls = append(fp.calls, "success")
	fp.successes = append(fp.successes, dir)
}

func (fp *fakePresenter) ReportFailure(err error) {
	fp.calls = append(fp.calls, "failure")
	fp.failures = append(fp.failures, err)
}

func (fp *fakePresenter) ShowHint(msg string) {
	fp.calls = append(fp.calls, "hint")
	fp.hints = append(fp.hints, msg)
}

func (fp *fakePresenter) LocationChanged(appearance dragdrop.Appearance) {
	fp.calls = append(fp.calls, "location")
	fp.tooltips = append(fp.tooltips, appearance.Tooltip)
}

type fakeOpener struct {
	opened []string
}

func (fo *fakeOpener) Open(path string) error {
	fo.opened = append(fo.opened, path)
	return nil
}

type testInstaller struct {
	c         *Controller
	presenter *fakePresenter
	opener    *fakeOpener
	store     *pathstore.Store
	zipPath   string
}

func writeZip(t *testing.T, zipPath string, names ...string) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, name := range names {
		fh := &zip.FileHeader{Name: name}
		if name[len(name)-1] == '/' {
			fh.SetMode(os.ModeDir | 0755)
			_, err := zw.CreateHeader(fh)
			wtest.Must(t, err)
			continue
		}

		fh.SetMode(0644)
		fh.Method = zip.Deflate
		w, err := zw.CreateHeader(fh)
		wtest.Must(t, err)
		_, err = w.Write([]byte("contents of " + name))
		wtest.Must(t, err)
	}
	wtest.Must(t, zw.Close())
	wtest.Must(t, ioutil.WriteFile(zipPath, buf.Bytes(), 0644))
}

func newTestInstaller(t *testing.T, dir string, zipPath string) *testInstaller {
	store, err := pathstore.New(dir, nil)
	wtest.Must(t, err)

	ti := &testInstaller{
		presenter: &fakePresenter{},
		opener:    &fakeOpener{},
		store:     store,
		zipPath:   zipPath,
	}

	ti.c, err = New(&Params{
		Store: store,
		Resolver: &resources.Override{
			Paths: map[string]string{
				resources.Payload: zipPath,
			},
		},
		Presenter: ti.presenter,
		Opener:    ti.opener,
	})
	wtest.Must(t, err)
	ti.c.Start()
	return ti
}

func Test_EndToEnd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	writeZip(t, zipPath, "MyApp.app/", "MyApp.app/Info.plist", "MyApp.app/binary")

	expectedDir := filepath.Join(home, "Applications")
	_, err := os.Stat(expectedDir)
	require.True(t, os.IsNotExist(err))

	ti := newTestInstaller(t, "", zipPath)
	assert.Equal(t, expectedDir, ti.c.Dir())

	stats, err := os.Stat(expectedDir)
	wtest.Must(t, err)
	assert.True(t, stats.IsDir())

	outcome := ti.c.DragToFolder()
	assert.Equal(t, dragdrop.Accepted, outcome)
	assert.NoError(t, ti.c.Err())
	assert.Equal(t, StateInstalled, ti.c.State())

	if assert.Len(t, ti.presenter.progress, 3) {
		for i, st := range ti.presenter.progress {
			assert.InDelta(t, float64(i+1)/3.0, st.Fraction(), 0.0001)
		}
	}
	assert.Equal(t, []string{"start", "progress", "progress", "progress", "end", "success"}, ti.presenter.calls)
	assert.Equal(t, []string{expectedDir}, ti.presenter.successes)
	assert.Equal(t, []string{expectedDir}, ti.opener.opened)

	_, err = os.Stat(filepath.Join(expectedDir, "MyApp.app", "binary"))
	assert.NoError(t, err)

	assert.Equal(t, []State{StateIdle, StateAwaitingDrop, StateExtracting, StateInstalled}, ti.c.Session().States())
}

func Test_ArchiveNotFound(t *testing.T) {
	work := t.TempDir()
	ti := newTestInstaller(t, filepath.Join(work, "dest"), filepath.Join(work, "missing.zip"))

	err := ti.c.HandleDrop()
	assert.True(t, errors.Is(err, archive.ErrArchiveNotFound))
	assert.Equal(t, StateFailed, ti.c.State())
	assert.Equal(t, []string{"failure"}, ti.presenter.calls)
	assert.Empty(t, ti.opener.opened)

	events := ti.c.Session().Events()
	var problems int
	for _, ev := range events {
		if ev.Type == EventProblem {
			problems++
			assert.Contains(t, ev.Problem.Error, "archive not found")
		}
	}
	assert.Equal(t, 1, problems)
}

func Test_CorruptArchive(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	wtest.Must(t, ioutil.WriteFile(zipPath, []byte("garbage"), 0644))

	ti := newTestInstaller(t, filepath.Join(work, "dest"), zipPath)
	err := ti.c.HandleDrop()
	assert.Error(t, err)

	var ee *archive.ExtractError
	assert.True(t, errors.As(err, &ee))
	assert.Equal(t, StateFailed, ti.c.State())
	assert.Equal(t, []string{"start", "end", "failure"}, ti.presenter.calls)
	assert.Empty(t, ti.opener.opened)

	// a new attempt goes back through awaiting-drop
	writeZip(t, zipPath, "a.txt")
	wtest.Must(t, ti.c.HandleDrop())
	assert.Equal(t, StateInstalled, ti.c.State())
	assert.Equal(t, []State{
		StateIdle, StateAwaitingDrop, StateExtracting, StateFailed,
		StateAwaitingDrop, StateExtracting, StateInstalled,
	}, ti.c.Session().States())
}

func Test_PathChange(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	writeZip(t, zipPath, "a/", "a/b.txt")

	oldDir := filepath.Join(work, "old")
	newDir := filepath.Join(work, "new")
	ti := newTestInstaller(t, oldDir, zipPath)

	// cancelled dialog
	wtest.Must(t, ti.c.HandlePathChange(newDir, false))
	assert.Equal(t, oldDir, ti.c.Dir())
	assert.Empty(t, ti.presenter.calls)

	wtest.Must(t, ti.c.HandlePathChange(newDir, true))
	assert.Equal(t, newDir, ti.c.Dir())
	if assert.Len(t, ti.presenter.tooltips, 1) {
		assert.Contains(t, ti.presenter.tooltips[0], "Current install location:\n")
	}

	wtest.Must(t, ti.c.HandleDrop())
	_, err := os.Stat(filepath.Join(newDir, "a", "b.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(oldDir, "a"))
	assert.True(t, os.IsNotExist(err))
}

func Test_PathChangeFailure(t *testing.T) {
	work := t.TempDir()
	oldDir := filepath.Join(work, "old")
	ti := newTestInstaller(t, oldDir, filepath.Join(work, "app.zip"))

	blocker := filepath.Join(work, "file")
	wtest.Must(t, ioutil.WriteFile(blocker, []byte("x"), 0644))

	err := ti.c.HandlePathChange(blocker, true)
	assert.Error(t, err)
	assert.Equal(t, oldDir, ti.c.Dir())
	assert.Equal(t, []string{"failure"}, ti.presenter.calls)
}

func Test_Idempotent(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	writeZip(t, zipPath, "x/", "x/y.txt", "z.txt")

	ti := newTestInstaller(t, filepath.Join(work, "dest"), zipPath)
	wtest.Must(t, ti.c.HandleDrop())
	wtest.Must(t, ti.c.HandleDrop())
	assert.Equal(t, StateInstalled, ti.c.State())
	assert.Len(t, ti.presenter.progress, 6)
	assert.Len(t, ti.opener.opened, 2)
}

func Test_ForeignDropIgnored(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	writeZip(t, zipPath, "a.txt")

	ti := newTestInstaller(t, filepath.Join(work, "dest"), zipPath)
	assert.False(t, ti.c.DropTarget().HandleDrop(dragdrop.InstallerMarker{ID: "SOMEONE_ELSE"}))
	assert.False(t, ti.c.DropTarget().HandleDrop(nil))
	assert.Equal(t, StateAwaitingDrop, ti.c.State())
	assert.Empty(t, ti.presenter.calls)
}

func Test_AbandonedDragShowsHint(t *testing.T) {
	work := t.TempDir()
	ti := newTestInstaller(t, filepath.Join(work, "dest"), filepath.Join(work, "app.zip"))

	outcome := ti.c.DragSource().BeginDrag(dragdrop.GestureFunc(func(payload dragdrop.Payload, effect dragdrop.Effect) dragdrop.Acceptor {
		return nil
	}))
	assert.Equal(t, dragdrop.Rejected, outcome)
	assert.Equal(t, []string{"hint"}, ti.presenter.calls)
	assert.Equal(t, StateAwaitingDrop, ti.c.State())
}

type blockingReader struct {
	entries []*archive.Entry
	during  func()
}

func (br *blockingReader) Entries() []*archive.Entry {
	return br.entries
}

func (br *blockingReader) ExtractEntry(entry *archive.Entry, sink savior.Sink) (int64, error) {
	br.during()
	return 0, sink.Mkdir(entry.Entry)
}

func (br *blockingReader) Close() error {
	return nil
}

func Test_BusyWhileExtracting(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	writeZip(t, zipPath, "a/")

	store, err := pathstore.New(filepath.Join(work, "dest"), nil)
	wtest.Must(t, err)

	presenter := &fakePresenter{}
	var c *Controller
	var nestedErr, pathErr error
	br := &blockingReader{
		entries: []*archive.Entry{
			{Index: 0, Entry: &savior.Entry{CanonicalPath: "a", Kind: savior.EntryKindDir}},
		},
		during: func() {
			nestedErr = c.HandleDrop()
			pathErr = c.HandlePathChange(filepath.Join(work, "other"), true)
		},
	}

	c, err = New(&Params{
		Store: store,
		Resolver: &resources.Override{
			Paths: map[string]string{resources.Payload: zipPath},
		},
		Presenter: presenter,
		Open: func(path string) (archive.Reader, error) {
			return br, nil
		},
	})
	wtest.Must(t, err)

	wtest.Must(t, c.HandleDrop())
	assert.Equal(t, ErrBusy, nestedErr)
	assert.Equal(t, ErrBusy, pathErr)
	assert.Equal(t, StateInstalled, c.State())
	assert.Equal(t, filepath.Join(work, "dest"), c.Dir())

	// the refused path change is reported, the install itself succeeds
	assert.Equal(t, []error{ErrBusy}, presenter.failures)
	assert.Equal(t, []string{"start", "failure", "progress", "end", "success"}, presenter.calls)
}

// staleResolver answers without checking the file still exists
type staleResolver struct {
	path string
}

func (sr *staleResolver) Resolve(name string) (string, bool) {
	return sr.path, true
}

func Test_ArchiveVanishedAfterResolve(t *testing.T) {
	work := t.TempDir()
	store, err := pathstore.New(filepath.Join(work, "dest"), nil)
	wtest.Must(t, err)

	presenter := &fakePresenter{}
	opened := false
	c, err := New(&Params{
		Store:     store,
		Resolver:  &staleResolver{path: filepath.Join(work, "gone.zip")},
		Presenter: presenter,
		Open: func(path string) (archive.Reader, error) {
			opened = true
			return archive.Open(path)
		},
	})
	wtest.Must(t, err)

	err = c.HandleDrop()
	assert.True(t, errors.Is(err, archive.ErrArchiveNotFound))
	assert.False(t, opened)
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, []string{"failure"}, presenter.calls)
}

func Test_ScheduledInstall(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "app.zip")
	writeZip(t, zipPath, "a.txt")

	store, err := pathstore.New(filepath.Join(work, "dest"), nil)
	wtest.Must(t, err)

	var queue []func()
	c, err := New(&Params{
		Store: store,
		Resolver: &resources.Override{
			Paths: map[string]string{resources.Payload: zipPath},
		},
		Presenter: &fakePresenter{},
		Schedule: func(task func()) {
			queue = append(queue, task)
		},
	})
	wtest.Must(t, err)
	c.Start()

	assert.Equal(t, dragdrop.Accepted, c.DragToFolder())
	assert.Equal(t, StateAwaitingDrop, c.State())
	require.Len(t, queue, 1)

	queue[0]()
	assert.Equal(t, StateInstalled, c.State())
}

func Test_NewRequiresCollaborators(t *testing.T) {
	_, err := New(&Params{})
	assert.Error(t, err)
}
