// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscription is a connected handler. Cancel disconnects it; it is safe to
// call from inside the handler itself and more than once.
type Subscription struct {
	list *handlerList
	id   int
}

// Cancel disconnects the handler.
func (s *Subscription) Cancel() {
	if s == nil || s.list == nil {
		return
	}
	s.list.remove(s.id)
	s.list = nil
}

type handler struct {
	id int
	fn func(*Document)
}

type handlerList struct {
	next     int
	handlers []handler
}

func (l *handlerList) add(fn func(*Document)) *Subscription {
	l.next++
	l.handlers = append(l.handlers, handler{id: l.next, fn: fn})
	return &Subscription{list: l, id: l.next}
}

func (l *handlerList) remove(id int) {
	for i, h := range l.handlers {
		if h.id == id {
			l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
			return
		}
	}
}

func (l *handlerList) connected(id int) bool {
	for _, h := range l.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

// emit calls every handler connected at the time of the call, skipping those
// disconnected by an earlier handler in the same emission.
func (l *handlerList) emit(doc *Document) {
	snapshot := append([]handler(nil), l.handlers...)
	for _, h := range snapshot {
		if l.connected(h.id) {
			h.fn(doc)
		}
	}
}

// =============================================================================
// FOLDER
// =============================================================================

// Folder is the ordered set of open documents plus the current one.
type Folder struct {
	docs    []*Document
	current *Document

	removed handlerList
	changed handlerList
}

// NewFolder creates an empty folder.
func NewFolder() *Folder {
	return &Folder{}
}

// Add appends doc. The first document added becomes current.
func (f *Folder) Add(doc *Document) {
	if doc == nil || f.Contains(doc) {
		return
	}
	f.docs = append(f.docs, doc)
	if f.current == nil {
		f.SetCurrent(doc)
	}
}

// Remove closes doc. Removed handlers run after doc has left the folder. If
// doc was current, the next document (or the previous one at the end) becomes
// current first.
func (f *Folder) Remove(doc *Document) bool {
	idx := f.indexOf(doc)
	if idx < 0 {
		return false
	}
	f.docs = append(f.docs[:idx:idx], f.docs[idx+1:]...)

	if f.current == doc {
		var next *Document
		switch {
		case idx < len(f.docs):
			next = f.docs[idx]
		case len(f.docs) > 0:
			next = f.docs[len(f.docs)-1]
		}
		f.current = next
		f.changed.emit(next)
	}

	f.removed.emit(doc)
	return true
}

// Contains reports whether doc is open.
func (f *Folder) Contains(doc *Document) bool {
	return f.indexOf(doc) >= 0
}

// Documents returns the open documents in order. The slice is a copy.
func (f *Folder) Documents() []*Document {
	return append([]*Document(nil), f.docs...)
}

// Len returns the number of open documents.
func (f *Folder) Len() int {
	return len(f.docs)
}

// Lookup finds an open document by key.
func (f *Folder) Lookup(key string) *Document {
	for _, d := range f.docs {
		if d.Key() == key {
			return d
		}
	}
	return nil
}

// Current returns the current document or nil.
func (f *Folder) Current() *Document {
	return f.current
}

// SetCurrent switches the current document. doc must be open or nil.
func (f *Folder) SetCurrent(doc *Document) {
	if doc != nil && !f.Contains(doc) {
		panic("document: SetCurrent with a document that is not open")
	}
	if f.current == doc {
		return
	}
	f.current = doc
	f.changed.emit(doc)
}

// OnDocumentRemoved connects fn to document removal.
func (f *Folder) OnDocumentRemoved(fn func(*Document)) *Subscription {
	return f.removed.add(fn)
}

// OnDocumentChanged connects fn to current-document changes. fn receives the
// new current document, which may be nil.
func (f *Folder) OnDocumentChanged(fn func(*Document)) *Subscription {
	return f.changed.add(fn)
}

func (f *Folder) indexOf(doc *Document) int {
	for i, d := range f.docs {
		if d == doc {
			return i
		}
	}
	return -1
}
