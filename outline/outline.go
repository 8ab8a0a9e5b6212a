package outline

import (
	"fmt"

	"github.com/tsawler/pdfoutline/core"
)

// Item is one bookmark. A nil Title means the node had no usable /Title.
type Item struct {
	Title    *string `json:"title"`
	Children []Item  `json:"children"`
}

// Store supplies the objects of a document. *reader.Reader implements it.
type Store interface {
	Trailer() core.Dict
	Lookup(ref core.IndirectRef) (core.Object, error)
}

// Extract reads the whole outline of the document in store, starting from
// the trailer's /Root. No items are returned when err is non-nil.
func Extract(store Store, opts ...Option) ([]Item, error) {
	w := newWalker(store, opts)

	first, err := w.entry()
	if err != nil {
		return nil, err
	}
	return w.chain(first, ErrInvalidOutlines, 1)
}

// Resolve reads the sibling chain starting at first, and every descendant.
func Resolve(store Store, first core.IndirectRef, opts ...Option) ([]Item, error) {
	return newWalker(store, opts).chain(first, ErrInvalidOutlines, 1)
}

type walker struct {
	store   Store
	opts    options
	visited map[core.IndirectRef]bool
}

func newWalker(store Store, opts []Option) *walker {
	return &walker{
		store:   store,
		opts:    newOptions(opts),
		visited: make(map[core.IndirectRef]bool),
	}
}

// entry follows trailer -> catalog -> outline root and returns the
// outline root's /First.
func (w *walker) entry() (core.IndirectRef, error) {
	root := w.store.Trailer().Get("Root")
	rootRef, ok := root.(core.IndirectRef)
	if !ok {
		return core.IndirectRef{}, fmt.Errorf("%w: /Root is %s", ErrMissingRoot, core.TypeOf(root))
	}

	obj, err := w.store.Lookup(rootRef)
	if err != nil {
		return core.IndirectRef{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return core.IndirectRef{}, fmt.Errorf("%w: %s is %s", ErrInvalidCatalog, rootRef, core.TypeOf(obj))
	}

	outlines := catalog.Get("Outlines")
	outlinesRef, ok := outlines.(core.IndirectRef)
	if !ok {
		return core.IndirectRef{}, fmt.Errorf("%w: catalog /Outlines is %s", ErrInvalidOutlines, core.TypeOf(outlines))
	}
	w.opts.logf("outlines: %s", outlinesRef)

	obj, err = w.store.Lookup(outlinesRef)
	if err != nil {
		return core.IndirectRef{}, fmt.Errorf("%w: %w", ErrInvalidOutlines, err)
	}
	outlineRoot, ok := obj.(core.Dict)
	if !ok {
		return core.IndirectRef{}, fmt.Errorf("%w: %s is %s", ErrInvalidOutlineRoot, outlinesRef, core.TypeOf(obj))
	}
	w.visited[outlinesRef] = true

	first, ok := outlineRoot.GetIndirectRef("First")
	if !ok {
		return core.IndirectRef{}, fmt.Errorf("%w: outline root /First is %s", ErrInvalidOutlines, core.TypeOf(outlineRoot.Get("First")))
	}
	return first, nil
}

// chain walks /Next from start, descending into /First before moving on.
// notFound labels a failed lookup of start itself; later lookups are
// siblings.
func (w *walker) chain(start core.IndirectRef, notFound error, depth int) ([]Item, error) {
	if w.opts.maxDepth > 0 && depth > w.opts.maxDepth {
		return nil, fmt.Errorf("%w: more than %d levels at %s", ErrDepthExceeded, w.opts.maxDepth, start)
	}

	items := []Item{}
	current, more := start, true
	for more {
		if w.visited[current] {
			return nil, fmt.Errorf("%w: %s reached twice", ErrCycle, current)
		}
		w.visited[current] = true

		obj, err := w.store.Lookup(current)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", notFound, err)
		}
		node, ok := obj.(core.Dict)
		if !ok {
			return nil, fmt.Errorf("%w: outline item %s is %s", ErrInvalidOutlines, current, core.TypeOf(obj))
		}

		title, err := w.title(current, node)
		if err != nil {
			return nil, err
		}

		children := []Item{}
		if first, ok := node.GetIndirectRef("First"); ok {
			w.opts.logf("first child of %s: %s", current, first)
			children, err = w.chain(first, ErrFindFirstChild, depth+1)
			if err != nil {
				return nil, err
			}
		}

		items = append(items, Item{Title: title, Children: children})

		current, more = node.GetIndirectRef("Next")
		notFound = ErrFindNextSibling
	}

	return items, nil
}

// title decodes the node's /Title, which may itself be stored indirectly.
func (w *walker) title(ref core.IndirectRef, node core.Dict) (*string, error) {
	obj := node.Get("Title")
	if titleRef, ok := obj.(core.IndirectRef); ok {
		resolved, err := w.store.Lookup(titleRef)
		if err != nil {
			return nil, fmt.Errorf("%w: outline item %s: %w", ErrExtractTitle, ref, err)
		}
		obj = resolved
	}

	title, err := DecodeTitle(obj, w.opts.lenient)
	if err != nil {
		return nil, fmt.Errorf("%w (outline item %s)", err, ref)
	}

	if title != nil {
		w.opts.logf("title of %s: %q", ref, *title)
	} else {
		w.opts.logf("title of %s: none", ref)
	}
	return title, nil
}
