package codebase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var watchLog = commonlog.GetLogger("onescript.watch")

// ChangeFunc is called after a source file was parsed again. file is nil
// when the file was removed.
type ChangeFunc func(path string, file *FileInfo)

// FileWatcher keeps a codebase in sync with the files on disk.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
}

// NewFileWatcher watches every directory of the codebase's project that
// is not excluded. Changes are reported once Run is called.
func NewFileWatcher(c *Codebase, onChange ChangeFunc) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &FileWatcher{
		codebase: c,
		watcher:  watcher,
		onChange: onChange,
	}
	if err := w.addTree(c.RootDir()); err != nil {
		watcher.Close()
		return nil, err
	}
	return w, nil
}

func (w *FileWatcher) addTree(root string) error {
	proj := w.codebase.Project()
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && proj.IsExcluded(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run handles file system events until ctx is cancelled.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Errorf("watcher error: %v", err)
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.codebase.Project().IsExcluded(info.Name()) {
				if err := w.addTree(path); err != nil {
					watchLog.Warningf("%v", err)
				}
			}
			return
		}
	}

	if !w.codebase.Project().IsSource(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if w.codebase.GetFile(path) == nil {
			return
		}
		w.codebase.RemoveFile(path)
		watchLog.Infof("removed %s", path)
		w.notify(path, nil)

	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		file, err := w.codebase.ScanFile(path)
		if err != nil {
			watchLog.Warningf("%v", err)
			return
		}
		watchLog.Infof("parsed %s: %d diagnostics", path, len(file.Diagnostics))
		w.notify(path, file)
	}
}

func (w *FileWatcher) notify(path string, file *FileInfo) {
	if w.onChange != nil {
		w.onChange(path, file)
	}
}
