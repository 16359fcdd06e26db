package review

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/internal/utils"
	"github.com/menta2k/voc-review/pkg/annotation"
	"github.com/menta2k/voc-review/pkg/display"
	"github.com/menta2k/voc-review/pkg/log"
	"github.com/menta2k/voc-review/pkg/processing"
	"github.com/menta2k/voc-review/pkg/types"
)

// State is the review loop state
type State int

const (
	StateDisplaying State = iota
	StateAccepting
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateDisplaying:
		return "displaying"
	case StateAccepting:
		return "accepting"
	case StateQuit:
		return "quit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a review session
type Options struct {
	Folder        string
	Out           string
	DisplayWidth  int
	DisplayHeight int
}

// Session walks the reviewer through the annotation files of one folder.
// It owns the file list and the current index.
type Session struct {
	opts      Options
	classes   processing.ColorLookup
	resolver  annotation.Resolver
	processor *processing.Processor
	display   display.Display
	log       *logrus.Entry

	files    []string
	index    int
	state    State
	progress Progress
	lastErr  error
}

// NewSession scans opts.Folder and returns a session positioned at the first file
func NewSession(opts Options, classes processing.ColorLookup, resolver annotation.Resolver,
	processor *processing.Processor, disp display.Display, logger logrus.FieldLogger) (*Session, error) {
	if processor == nil {
		processor = processing.NewProcessor()
	}
	entry, _ := log.WithSession(logger)

	s := &Session{
		opts:      opts,
		classes:   classes,
		resolver:  resolver,
		processor: processor,
		display:   disp,
		log:       entry,
		state:     StateDisplaying,
	}
	if err := s.rescan(); err != nil {
		return nil, err
	}
	s.log.WithFields(log.Fields{"folder": opts.Folder, "files": len(s.files)}).Info("review session started")
	return s, nil
}

// Files returns the current file list
func (s *Session) Files() []string { return s.files }

// Index returns the index of the file shown next
func (s *Session) Index() int { return s.index }

// State returns the loop state
func (s *Session) State() State { return s.state }

// Progress returns the progress of the last displayed file
func (s *Session) Progress() Progress { return s.progress }

// LastError returns the last per-file error reported to the reviewer
func (s *Session) LastError() error { return s.lastErr }

// Run displays files until the reviewer quits, no files remain, or ctx is done.
// Cancellation is also observed while waiting for a key.
func (s *Session) Run(ctx context.Context) error {
	for s.state != StateQuit {
		if err := ctx.Err(); err != nil {
			s.state = StateQuit
			return err
		}
		if len(s.files) == 0 {
			s.log.WithField("folder", s.opts.Folder).Info("no annotation files left to review")
			s.state = StateQuit
			break
		}
		if err := s.step(ctx); err != nil {
			s.state = StateQuit
			return err
		}
	}
	s.log.Info("review session finished")
	return nil
}

// step shows the current file in a fresh window and handles one recognised key.
// A closed window returns without a key so the same file is shown again.
func (s *Session) step(ctx context.Context) error {
	path := s.files[s.index]
	s.progress.Update(s.index, len(s.files))
	entry := s.log.WithFields(log.Fields{"file": path, "progress": s.progress.String()})

	title := fmt.Sprintf("[%d/%d] %s", s.index+1, len(s.files), filepath.Base(path))
	win, err := s.display.Open(title, s.opts.DisplayWidth, s.opts.DisplayHeight)
	if err != nil {
		return reviewerr.NewIOError(path, "open window", err)
	}
	defer func() {
		if err := win.Close(); err != nil {
			entry.WithError(err).Warn("failed to close window")
		}
	}()

	if err := s.show(win, path, entry); err != nil {
		s.report(entry.WithField("action", "display"), err)
		if serr := win.ShowStatus(statusLines(path, err)); serr != nil {
			entry.WithError(serr).Warn("failed to show status")
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch key := win.WaitKey(); key {
		case display.KeyUnknown:
			continue
		case display.KeyNone:
			if err := ctx.Err(); err != nil {
				return err
			}
			entry.Debug("window closed without a key, reopening")
			return nil
		default:
			s.apply(key, entry)
			return nil
		}
	}
}

func (s *Session) show(win display.Window, path string, entry *logrus.Entry) error {
	rec, err := annotation.ParseFile(path)
	if err != nil {
		return err
	}
	pair, err := s.pairFor(path, rec)
	if err != nil {
		return err
	}
	img, err := s.processor.LoadImage(pair.Image)
	if err != nil {
		return err
	}

	frame := s.processor.Compose(img, rec, s.classes)
	scaled, scale := s.processor.FitToDisplay(frame, s.opts.DisplayWidth, s.opts.DisplayHeight)
	entry.WithFields(log.Fields{
		"image": pair.Image,
		"scale": fmt.Sprintf("%.3f", scale),
	}).Infof("showing %s", processing.Describe(rec, s.classes))

	if err := win.Show(scaled); err != nil {
		return reviewerr.NewIOError(pair.Image, "show frame", err)
	}
	return nil
}

func (s *Session) apply(key display.Key, entry *logrus.Entry) {
	entry.WithField("key", key.String()).Debug("key pressed")

	switch key {
	case display.KeyQuit:
		s.state = StateQuit
	case display.KeyPrev:
		s.index = Prev(s.index, len(s.files))
	case display.KeyNext:
		s.index = Next(s.index, len(s.files))
	case display.KeyAccept:
		s.state = StateAccepting
		s.accept(entry.WithField("action", "accept"))
		if s.state == StateAccepting {
			s.state = StateDisplaying
		}
	}
}

// accept moves the current pair to the output folder and rebuilds the file list.
// On failure the list is kept as is; either way the loop restarts at index 0.
func (s *Session) accept(entry *logrus.Entry) {
	defer func() { s.index = 0 }()

	path := s.files[s.index]
	pair, err := s.pairFor(path, nil)
	if err != nil {
		s.report(entry, err)
		return
	}

	moved, err := utils.MovePair(pair, s.opts.Out)
	if err != nil {
		s.report(entry, err)
		return
	}
	entry.WithFields(log.Fields{"image": moved.Image, "annotation": moved.Annotation}).Info("accepted")

	if err := s.rescan(); err != nil {
		s.report(entry, err)
		s.files = removePath(s.files, path)
	}
}

func (s *Session) pairFor(path string, rec *types.AnnotationRecord) (types.Pair, error) {
	if rec == nil && s.resolver.NeedsRecord() {
		var err error
		if rec, err = annotation.ParseFile(path); err != nil {
			return types.Pair{}, err
		}
	}
	img, err := s.resolver.Resolve(path, rec)
	if err != nil {
		return types.Pair{}, err
	}
	return types.Pair{Annotation: path, Image: img}, nil
}

func (s *Session) rescan() error {
	files, err := utils.ListAnnotationFiles(s.opts.Folder)
	if err != nil {
		return reviewerr.NewIOError(s.opts.Folder, "scan folder", err)
	}
	s.files = files
	if s.index >= len(s.files) {
		s.index = 0
	}
	return nil
}

func (s *Session) report(entry *logrus.Entry, err error) {
	s.lastErr = err
	entry.WithField("code", reviewerr.CodeOf(err)).Error(err.Error())
}

func statusLines(path string, err error) []string {
	lines := []string{filepath.Base(path)}
	if code := reviewerr.CodeOf(err); code != "" {
		lines = append(lines, string(code))
	}
	return append(lines, err.Error(), "a: previous  d: next  s: accept  q: quit")
}

func removePath(files []string, path string) []string {
	out := files[:0]
	for _, f := range files {
		if f != path {
			out = append(out, f)
		}
	}
	return out
}

// Next returns the index after i, wrapping to 0
func Next(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

// Prev returns the index before i, wrapping to n-1
func Prev(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i - 1 + n) % n
}
