package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/statementform/internal/model"
	"github.com/cleared-dev/statementform/internal/notice"
)

// User-facing notice texts.
const (
	MsgNoFile  = "Please select a file first"
	MsgFailed  = "Error processing file. Please try again."
	MsgSuccess = "File processed successfully!"
)

var (
	// ErrNoFile is returned by Submit when nothing is selected.
	ErrNoFile = errors.New("form: no file selected")
	// ErrBusy is returned while an upload is in flight.
	ErrBusy = errors.New("form: upload in progress")
)

// Uploader sends a statement to the processing service.
type Uploader interface {
	Upload(ctx context.Context, file *model.SelectedFile) ([]byte, error)
}

// Presenter hands a processed statement to the user and returns where it went.
type Presenter interface {
	Present(ctx context.Context, payload []byte) (string, error)
}

// Form holds the upload form's state: one selected file, one upload at a
// time, and the notices that report how the last upload went.
type Form struct {
	uploader  Uploader
	presenter Presenter
	notices   *notice.Board
	logger    *log.Logger

	mu    sync.Mutex
	file  *model.SelectedFile
	state model.RequestState
}

// New returns an idle Form with nothing selected.
func New(u Uploader, p Presenter, notices *notice.Board, logger *log.Logger) *Form {
	if notices == nil {
		notices = notice.NewBoard(notice.DefaultDuration)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Form{
		uploader:  u,
		presenter: p,
		notices:   notices,
		logger:    logger,
		state:     model.StateIdle,
	}
}

// Notices returns the form's notice board.
func (f *Form) Notices() *notice.Board { return f.notices }

// Select stores file as the selection and clears the error notice.
// A nil file is a cancelled pick and leaves the selection unchanged.
// Selection is unavailable while an upload is in flight.
func (f *Form) Select(file *model.SelectedFile) error {
	if file == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == model.StateInFlight {
		return ErrBusy
	}
	f.file = file
	f.notices.Dismiss(model.NoticeError)
	return nil
}

// Selected returns the current selection, or nil.
func (f *Form) Selected() *model.SelectedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file
}

// State returns whether an upload is outstanding.
func (f *Form) State() model.RequestState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CanSubmit reports whether the submit action is available.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *Form) canSubmitLocked() bool {
	return f.file != nil && f.state == model.StateIdle
}

// Submit uploads the selected file and presents the processed result.
// It returns the presenter's reference on success. Failures of any kind
// surface as the same generic error notice; the returned error keeps the cause.
func (f *Form) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state == model.StateInFlight {
		f.mu.Unlock()
		return "", ErrBusy
	}
	if f.file == nil {
		f.notices.Show(model.NoticeError, MsgNoFile)
		f.mu.Unlock()
		return "", ErrNoFile
	}
	file := f.file
	f.state = model.StateInFlight
	f.notices.Dismiss(model.NoticeError)
	f.mu.Unlock()

	ref, err := f.process(ctx, file)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = model.StateIdle
	if err != nil {
		f.logger.Debug("statement not processed", "file", file.Name, "err", err)
		f.notices.Show(model.NoticeError, MsgFailed)
		return "", err
	}
	f.file = nil
	f.notices.Show(model.NoticeSuccess, MsgSuccess)
	f.logger.Info("statement processed", "file", file.Name, "ref", ref)
	return ref, nil
}

func (f *Form) process(ctx context.Context, file *model.SelectedFile) (string, error) {
	payload, err := f.uploader.Upload(ctx, file)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", file.Name, err)
	}
	ref, err := f.presenter.Present(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("presenting result: %w", err)
	}
	return ref, nil
}

// View is a point-in-time copy of the form for rendering.
type View struct {
	FileName  string
	State     model.RequestState
	CanSubmit bool
	Notices   []model.Notice
}

// Snapshot returns the current View.
func (f *Form) Snapshot() View {
	f.mu.Lock()
	v := View{State: f.state}
	if f.file != nil {
		v.FileName = f.file.Name
	}
	v.CanSubmit = f.canSubmitLocked()
	f.mu.Unlock()
	v.Notices = f.notices.Active()
	return v
}
