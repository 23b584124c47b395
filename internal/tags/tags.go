// Package tags keeps a category index over live handles.
package tags

import "sort"

// Index maps a tag to the handles carrying it, in insertion order.
// The zero value is ready to use.
type Index[H comparable] struct {
	byTag map[string][]H
}

// Add attaches tag to h. Adding a tag the handle already has is a no-op.
func (x *Index[H]) Add(tag string, h H) {
	if x.byTag == nil {
		x.byTag = make(map[string][]H)
	}
	for _, existing := range x.byTag[tag] {
		if existing == h {
			return
		}
	}
	x.byTag[tag] = append(x.byTag[tag], h)
}

// Remove detaches tag from h. Unknown tags and handles are ignored.
func (x *Index[H]) Remove(tag string, h H) {
	list := x.byTag[tag]
	for i, existing := range list {
		if existing == h {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(x.byTag, tag)
		return
	}
	x.byTag[tag] = list
}

// All returns the handles with tag, oldest first. The slice is a copy.
func (x *Index[H]) All(tag string) []H {
	list := x.byTag[tag]
	out := make([]H, len(list))
	copy(out, list)
	return out
}

// First returns the oldest handle with tag.
func (x *Index[H]) First(tag string) (H, bool) {
	list := x.byTag[tag]
	if len(list) == 0 {
		var zero H
		return zero, false
	}
	return list[0], true
}

// Tags lists the tags that currently have members, sorted.
func (x *Index[H]) Tags() []string {
	out := make([]string, 0, len(x.byTag))
	for tag := range x.byTag {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
