package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	"github.com/dshills/jmbglens/internal/editor"
)

// scratchURI names the empty document opened when no files are given.
const scratchURI = "untitled:scratch"

// openFile loads path into a new view.
func (app *Application) openFile(path string) (*editor.View, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}

	doc := editor.NewDocument("file://"+filepath.ToSlash(abs), string(data))
	doc.SetReadOnly(app.opts.ReadOnly)
	return app.host.Open(doc), nil
}

// browserOpen is replaced in tests.
var browserOpen = browser.OpenURL

// openBrowser opens url with the platform's default handler. The launcher's
// own output would land on the terminal screen, so it is discarded.
func openBrowser(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	if err := browserOpen(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
