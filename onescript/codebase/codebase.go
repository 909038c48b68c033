package codebase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/dhamidi/onescript/onescript/parser"
	"github.com/dhamidi/onescript/project"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("onescript.codebase")

// Codebase holds the parsed source files of a project. It is safe for
// concurrent use.
type Codebase struct {
	mu      sync.RWMutex
	project *project.Project
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path        string
	Content     []byte
	AST         *parser.Node
	Diagnostics []parser.Diagnostic
}

// HasErrors reports whether parsing the file produced any diagnostic.
func (f *FileInfo) HasErrors() bool {
	return len(f.Diagnostics) > 0
}

func New(proj *project.Project) *Codebase {
	return &Codebase{
		project: proj,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

// ScanAll parses every source file of the project using the configured
// number of workers. Files that cannot be read are logged and skipped.
// Files already in the codebase, such as documents open in an editor, keep
// their current content.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := c.project.SourceFiles()
	if err != nil {
		return err
	}

	workers := c.project.Config.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := c.scanNew(path); err != nil {
					log.Warningf("scan %s: %v", path, err)
				}
			}
		}()
	}

feed:
	for _, path := range paths {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- path:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return err
	}

	log.Infof("scanned %d files in %s, %d diagnostics", len(paths), c.RootDir(), c.DiagnosticCount())
	return nil
}

// ScanFile reads and parses path.
func (c *Codebase) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return c.UpdateFile(path, content), nil
}

// scanNew reads and parses path unless the codebase already holds it.
func (c *Codebase) scanNew(path string) error {
	if c.GetFile(path) != nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	info := ParseFile(path, content)

	c.mu.Lock()
	_, present := c.files[path]
	if !present {
		c.files[path] = info
	}
	c.mu.Unlock()

	if !present {
		log.Debugf("parsed %s: %d diagnostics", path, len(info.Diagnostics))
	}
	return nil
}

// UpdateFile parses content as the new text of path. Parsing happens
// outside the lock so that files are parsed in parallel.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := ParseFile(path, content)

	c.mu.Lock()
	c.files[path] = info
	c.mu.Unlock()

	log.Debugf("parsed %s: %d diagnostics", path, len(info.Diagnostics))
	return info
}

// ParseFile parses content without adding it to a codebase.
func ParseFile(path string, content []byte) *FileInfo {
	p := parser.ParseSourceFile(bytes.NewReader(content), parser.WithFile(path), parser.WithPositions())
	ast := p.Finish()
	return &FileInfo{
		Path:        path,
		Content:     content,
		AST:         ast,
		Diagnostics: p.Diagnostics(),
	}
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the paths of all known files in lexical order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// DiagnosticCount returns the number of diagnostics over all files.
func (c *Codebase) DiagnosticCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, f := range c.files {
		n += len(f.Diagnostics)
	}
	return n
}

// Symbols returns the module variables and methods declared in path.
func (c *Codebase) Symbols(path string) []Symbol {
	f := c.GetFile(path)
	if f == nil || f.AST == nil {
		return nil
	}
	return SymbolsOf(f.AST)
}
