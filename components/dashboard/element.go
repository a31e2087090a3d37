package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ettle/strcase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// RefAttr tags nodes that carry event listeners so transports can address them.
	RefAttr = "data-dsb-ref"
	// EventsAttr lists the event names bound on a node.
	EventsAttr = "data-dsb-on"
)

// Listener handles an event dispatched to a node.
type Listener func(ctx context.Context) error

// Attrs configures a node built by Builder.El. Keys follow a convention: "class",
// "style" (a Style), "on<Event>" (a Listener), anything else is a literal attribute.
type Attrs map[string]any

// Style holds inline style properties. camelCase keys are written as kebab-case.
type Style map[string]any

// Builder constructs node trees and binds their listeners into an event table.
type Builder struct {
	events *eventTable
}

// NewBuilder returns a builder with its own event table, detached from any document.
func NewBuilder() *Builder {
	return &Builder{events: newEventTable()}
}

// El builds an element with the given attributes and children. Children may be
// strings (inserted as text), nodes, slices of either, or nil. Other child types are
// a programming error and panic.
func (b *Builder) El(tag string, attrs Attrs, children ...any) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, key := range sortedKeys(attrs) {
		value := attrs[key]
		switch {
		case key == "class":
			setAttr(node, "class", fmt.Sprint(value))
		case key == "style":
			mergeStyle(node, value)
		case strings.HasPrefix(key, "on") && isListener(value):
			b.bind(node, strings.ToLower(key[2:]), toListener(value))
		default:
			setAttr(node, key, fmt.Sprint(value))
		}
	}
	appendChildren(node, children)
	return node
}

// Text builds a detached text node.
func Text(value string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: value}
}

func (b *Builder) bind(node *html.Node, event string, listener Listener) {
	if b.events == nil {
		b.events = newEventTable()
	}
	ref, ok := attr(node, RefAttr)
	if !ok {
		ref = b.events.nextRef()
		setAttr(node, RefAttr, ref)
	}
	b.events.add(ref, event, listener)
	events, _ := attr(node, EventsAttr)
	setAttr(node, EventsAttr, strings.TrimSpace(events+" "+event))
}

func appendChildren(node *html.Node, children []any) {
	for _, child := range children {
		switch c := child.(type) {
		case nil:
		case string:
			node.AppendChild(Text(c))
		case *html.Node:
			if c == nil {
				continue
			}
			detach(c)
			node.AppendChild(c)
		case []*html.Node:
			for _, n := range c {
				appendChildren(node, []any{n})
			}
		case []string:
			for _, s := range c {
				node.AppendChild(Text(s))
			}
		case []any:
			appendChildren(node, c)
		default:
			panic(fmt.Sprintf("dashboard: unsupported child type %T", child))
		}
	}
}

func isListener(v any) bool {
	switch v.(type) {
	case Listener, func(context.Context) error, func():
		return true
	}
	return false
}

func toListener(v any) Listener {
	switch fn := v.(type) {
	case Listener:
		return fn
	case func(context.Context) error:
		return fn
	case func():
		return func(context.Context) error {
			fn()
			return nil
		}
	}
	return nil
}

func mergeStyle(node *html.Node, value any) {
	props := parseStyle(node)
	switch v := value.(type) {
	case Style:
		for key, val := range v {
			props[strcase.ToKebab(key)] = fmt.Sprint(val)
		}
	case map[string]string:
		for key, val := range v {
			props[strcase.ToKebab(key)] = val
		}
	case string:
		setAttr(node, "style", v)
		return
	default:
		panic(fmt.Sprintf("dashboard: unsupported style type %T", value))
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+":"+props[key])
	}
	setAttr(node, "style", strings.Join(parts, ";"))
}

func parseStyle(node *html.Node) map[string]string {
	props := map[string]string{}
	current, ok := attr(node, "style")
	if !ok {
		return props
	}
	for _, decl := range strings.Split(current, ";") {
		key, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		props[key] = strings.TrimSpace(val)
	}
	return props
}

func sortedKeys(attrs Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func attr(node *html.Node, key string) (string, bool) {
	if node == nil {
		return "", false
	}
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(node *html.Node, key, value string) {
	for i, a := range node.Attr {
		if a.Namespace == "" && a.Key == key {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

func attrInt(node *html.Node, key string, fallback int) int {
	raw, ok := attr(node, key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func detach(node *html.Node) {
	if node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
}

func replaceNode(old, replacement *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	detach(replacement)
	parent.InsertBefore(replacement, old)
	parent.RemoveChild(old)
}

func clearChildren(node *html.Node) {
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		node.RemoveChild(child)
		child = next
	}
}

// eventTable maps node refs to their listeners.
type eventTable struct {
	mu        sync.RWMutex
	seq       int
	listeners map[string]map[string]Listener
}

func newEventTable() *eventTable {
	return &eventTable{listeners: map[string]map[string]Listener{}}
}

func (t *eventTable) nextRef() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return "e" + strconv.Itoa(t.seq)
}

func (t *eventTable) add(ref, event string, listener Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	byEvent, ok := t.listeners[ref]
	if !ok {
		byEvent = map[string]Listener{}
		t.listeners[ref] = byEvent
	}
	byEvent[event] = listener
}

func (t *eventTable) lookup(ref, event string) (Listener, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	listener, ok := t.listeners[ref][event]
	return listener, ok
}

// retain drops listeners whose ref is not in live.
func (t *eventTable) retain(live map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ref := range t.listeners {
		if _, ok := live[ref]; !ok {
			delete(t.listeners, ref)
		}
	}
}

func (t *eventTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.listeners)
}
