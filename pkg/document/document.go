package document

import (
	stderrors "errors"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/matzehuels/treeline/pkg/directive"
	"github.com/matzehuels/treeline/pkg/errors"
)

// Lookup resolves layout labels to documents.
type Lookup interface {
	Layout(label string) (*Document, bool)
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// Document is one HTML resource in the build.
type Document struct {
	fs     afero.Fs
	dir    string
	name   string
	logger *log.Logger

	tree       *html.Node
	isDocument bool
	root       directive.Detection
	fragments  map[string]*ContentFragment

	resolved bool
	parent   *Document

	mu       sync.Mutex
	gaps     *IncludeGaps
	output   []byte
	rendered bool
}

// New loads the document at dir/name and resolves its parent layout
// against layouts.
func New(fsys afero.Fs, dir, name string, layouts Lookup, opts ...Option) (*Document, error) {
	d, err := Load(fsys, dir, name, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Resolve(layouts); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads and parses the document at dir/name, detects its root
// directive and collects its content fragments. The parent layout is not
// resolved until [Document.Resolve] is called.
func Load(fsys afero.Fs, dir, name string, opts ...Option) (*Document, error) {
	d := &Document{
		fs:     fsys,
		dir:    dir,
		name:   name,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	content, err := afero.ReadFile(fsys, d.Path())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read '%s'", d.Path())
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read '%s'", d.Path())
	}

	return d.parse(content)
}

// Parse builds a document from in-memory content. The document still
// belongs to dir/name in fsys, which is where [Document.Write] puts it.
func Parse(fsys afero.Fs, dir, name string, content []byte, opts ...Option) (*Document, error) {
	d := &Document{
		fs:     fsys,
		dir:    dir,
		name:   name,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d.parse(content)
}

func (d *Document) parse(content []byte) (*Document, error) {
	tree, isDocument, err := parseTree(content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "parse '%s'", d.Path())
	}
	d.tree = tree
	d.isDocument = isDocument
	d.root = directive.Detect(tree.FirstChild)
	d.fragments = scanFragments(tree)

	d.logger.Debug("loaded document",
		"document", d.Label(),
		"whole", isDocument,
		"first", Describe(tree.FirstChild),
		"fragments", len(d.fragments))
	return d, nil
}

// Resolve sets the parent layout from the root directive. A missing or
// malformed directive means no parent. A valid directive that is not
// extends, or that names a layout absent from layouts, is an error.
// Once resolved the parent never changes.
func (d *Document) Resolve(layouts Lookup) error {
	if d.resolved {
		return nil
	}

	switch d.root.Status {
	case directive.Absent:
		d.resolved = true
		return nil
	case directive.Malformed:
		d.logger.Debug("ignoring malformed root directive", "document", d.Label(), "err", d.root.Err)
		d.resolved = true
		return nil
	}

	dir := d.root.Directive
	if dir.Scenario != directive.Extends {
		return errors.New(errors.ErrCodeRootDirectiveIsNotLayout,
			"the root treeline directive of page '%s' must be a 'treeline:extends' comment, got '%s'", d.Label(), dir)
	}

	var parent *Document
	ok := false
	if layouts != nil {
		parent, ok = layouts.Layout(dir.Value)
	}
	if !ok {
		return errors.New(errors.ErrCodeLayoutDoesNotExist,
			"the root treeline directive for '%s' specifies an invalid layout '%s'", d.Label(), dir.Value)
	}

	d.parent = parent
	d.resolved = true
	return nil
}

// Label is the file name without its extension, e.g. "colophon".
func (d *Document) Label() string {
	return strings.TrimSuffix(d.name, filepath.Ext(d.name))
}

// Name is the file name.
func (d *Document) Name() string { return d.name }

// Dir is the directory holding the file.
func (d *Document) Dir() string { return d.dir }

// Path is the location of the file within its filesystem.
func (d *Document) Path() string { return filepath.Join(d.dir, d.name) }

// IsWholeDocument reports whether the file was parsed as a full document
// rather than a fragment.
func (d *Document) IsWholeDocument() bool { return d.isDocument }

// RootDirective returns what was found on the first child of the tree.
func (d *Document) RootDirective() directive.Detection { return d.root }

// ParentLayout returns the layout this document extends. Use
// [Document.Render] to reach indirect ancestors.
func (d *Document) ParentLayout() (*Document, error) {
	if d.parent == nil {
		return nil, errors.New(errors.ErrCodeNoParentLayout, "no parent layout has been set for page '%s'", d.Label())
	}
	return d.parent, nil
}

// HasParentLayout reports whether the document extends a layout.
func (d *Document) HasParentLayout() bool { return d.parent != nil }

// Chain returns the document followed by its ancestors up to the root
// layout. A cycle ends the chain at the first repeated document.
func (d *Document) Chain() []*Document {
	var chain []*Document
	for cur := d; cur != nil; cur = cur.parent {
		if slices.Contains(chain, cur) {
			break
		}
		chain = append(chain, cur)
	}
	return chain
}

// Fragment returns the content fragment with the given name.
func (d *Document) Fragment(name string) (*ContentFragment, bool) {
	f, ok := d.fragments[name]
	return f, ok
}

// FragmentNames returns the sorted names of all content fragments.
func (d *Document) FragmentNames() []string {
	names := make([]string, 0, len(d.fragments))
	for name := range d.fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeclaredGaps returns the names of the include gaps in the document's own
// tree, in discovery order, without rendering.
func (d *Document) DeclaredGaps() []string {
	return discoverGaps(d.tree).Names()
}

// IncludeGaps returns the gaps found the last time this document was
// rendered as a root layout, or nil.
func (d *Document) IncludeGaps() *IncludeGaps {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gaps
}

// Output returns the rendered markup and whether rendering has happened.
func (d *Document) Output() ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output, d.rendered
}

func (d *Document) setOutput(b []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.output = b
	d.rendered = true
}

// Write stores the rendered output at the document's own path.
func (d *Document) Write() error {
	return d.WriteFile(d.Path())
}

// WriteFile stores the rendered output at path in the document's filesystem.
func (d *Document) WriteFile(path string) error {
	out, ok := d.Output()
	if !ok {
		return errors.New(errors.ErrCodeNotRendered, "'%s' has not been rendered", d.Label())
	}
	if err := afero.WriteFile(d.fs, path, out, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write '%s'", path)
	}
	return nil
}
