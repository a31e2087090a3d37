package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadyState mirrors the document loading lifecycle.
type ReadyState string

const (
	ReadyLoading     ReadyState = "loading"
	ReadyInteractive ReadyState = "interactive"
)

// ErrNoListener is returned when an event targets a node without a matching listener.
var ErrNoListener = errors.New("dashboard: no listener for event")

const blankPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document is the live page the dashboard renders into. Mutations of the tree are
// serialized by an internal lock; builders produce detached nodes that are attached
// through Update.
type Document struct {
	mu      sync.Mutex
	root    *html.Node
	head    *html.Node
	body    *html.Node
	events  *eventTable
	state   ReadyState
	onReady []func()
}

// ParseDocument parses a full HTML page. The document starts in the loading state.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse document: %w", err)
	}
	doc := &Document{
		root:   root,
		events: newEventTable(),
		state:  ReadyLoading,
	}
	doc.head = findFirst(root, atom.Head)
	doc.body = findFirst(root, atom.Body)
	if doc.head == nil || doc.body == nil {
		return nil, errors.New("dashboard: document requires head and body")
	}
	return doc, nil
}

// NewBlankDocument returns an empty page in the loading state.
func NewBlankDocument() *Document {
	doc, err := ParseDocument(strings.NewReader(blankPage))
	if err != nil {
		panic(err)
	}
	return doc
}

// Builder returns a builder whose listeners are dispatchable through this document.
func (d *Document) Builder() *Builder {
	return &Builder{events: d.events}
}

// ReadyState reports whether the document finished loading.
func (d *Document) ReadyState() ReadyState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OnReady runs fn once the document becomes interactive, immediately if it already is.
func (d *Document) OnReady(fn func()) {
	d.mu.Lock()
	if d.state != ReadyLoading {
		d.mu.Unlock()
		fn()
		return
	}
	d.onReady = append(d.onReady, fn)
	d.mu.Unlock()
}

// MarkReady flips the document to interactive and runs pending ready callbacks.
func (d *Document) MarkReady() {
	d.mu.Lock()
	if d.state != ReadyLoading {
		d.mu.Unlock()
		return
	}
	d.state = ReadyInteractive
	pending := d.onReady
	d.onReady = nil
	d.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Update runs fn with exclusive access to the tree.
func (d *Document) Update(fn func(tx *Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(&Tx{doc: d})
}

// GetElementByID returns the element with id, or nil when there is none. The
// returned node must only be mutated through Update.
func (d *Document) GetElementByID(id string) *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return findByAttr(d.root, "id", id)
}

// WithElement runs fn on the element with the given id under the document lock.
// It reports false when the element is absent.
func (d *Document) WithElement(id string, fn func(tx *Tx, node *html.Node)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := findByAttr(d.root, "id", id)
	if node == nil {
		return false
	}
	fn(&Tx{doc: d}, node)
	return true
}

// Dispatch invokes the listener bound for event on the node tagged with ref.
func (d *Document) Dispatch(ctx context.Context, ref, event string) error {
	listener, ok := d.events.lookup(ref, strings.ToLower(event))
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNoListener, ref, event)
	}
	return listener(ctx)
}

// Render writes the page as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the page, mostly for tests and snapshots.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

// Tx exposes tree operations while the document lock is held.
type Tx struct {
	doc *Document
}

// Head returns the page head element.
func (tx *Tx) Head() *html.Node { return tx.doc.head }

// Body returns the page body element.
func (tx *Tx) Body() *html.Node { return tx.doc.body }

// GetElementByID finds an element by id.
func (tx *Tx) GetElementByID(id string) *html.Node {
	return findByAttr(tx.doc.root, "id", id)
}

// Append attaches children to parent in order.
func (tx *Tx) Append(parent *html.Node, children ...*html.Node) {
	for _, child := range children {
		detach(child)
		parent.AppendChild(child)
	}
}

// Remove detaches node from its parent, if any.
func (tx *Tx) Remove(node *html.Node) {
	detach(node)
}

// Clear removes every child of node.
func (tx *Tx) Clear(node *html.Node) {
	clearChildren(node)
}

// Replace swaps old for replacement in the tree.
func (tx *Tx) Replace(old, replacement *html.Node) {
	replaceNode(old, replacement)
}

// PruneListeners drops listeners whose nodes are no longer in the tree.
func (tx *Tx) PruneListeners() {
	live := map[string]struct{}{}
	walk(tx.doc.root, func(n *html.Node) bool {
		if ref, ok := attr(n, RefAttr); ok {
			live[ref] = struct{}{}
		}
		return true
	})
	tx.doc.events.retain(live)
}

func findFirst(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

func findByAttr(root *html.Node, key, value string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if v, ok := attr(n, key); ok && v == value {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits nodes depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
