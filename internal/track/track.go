// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package track is the change-tracking engine of ormlet. It keeps an
// identity map from tracked entity instances to entries that pair a
// lifecycle state with a snapshot of the entity's original field values,
// and detects changes by diffing the snapshot against the live entity.
//
// Identity is pointer identity: entities are tracked as pointers and the
// map is keyed by the pointer itself, so two equal-valued instances are
// distinct entries while re-tracking the same instance always lands on the
// same entry.
//
// A Tracker is not safe for concurrent mutation. Each unit of work owns
// its Tracker exclusively.
package track

import (
	"fmt"

	"github.com/seaware/ormlet/internal/typeinfo"
)

// State is the lifecycle state of a tracked entity.
type State int

const (
	// Detached is the state of an entity never registered with a tracker.
	Detached State = iota
	// Unchanged entities match their snapshot.
	Unchanged
	// Added entities are pending INSERT.
	Added
	// Modified entities are pending UPDATE.
	Modified
	// Deleted entities are pending DELETE.
	Deleted
)

func (s State) String() string {
	switch s {
	case Detached:
		return "Detached"
	case Unchanged:
		return "Unchanged"
	case Added:
		return "Added"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EntityNotTrackedError reports an operation that assumed prior tracking
// which did not occur.
type EntityNotTrackedError struct {
	TypeName string
}

func (e *EntityNotTrackedError) Error() string {
	return fmt.Sprintf("entity of type %q is not tracked", e.TypeName)
}

// Entry pairs a tracked entity with its lifecycle state and the snapshot of
// its original field values. The snapshot's key set is always exactly the
// catalog's binding field set for the entity type.
type Entry struct {
	entity   any
	info     *typeinfo.Info
	state    State
	original map[string]any
}

// Entity returns the tracked entity pointer.
func (e *Entry) Entity() any {
	return e.entity
}

// Info returns the entity's metadata.
func (e *Entry) Info() *typeinfo.Info {
	return e.info
}

// State returns the current lifecycle state.
func (e *Entry) State() State {
	return e.state
}

// Original returns the snapshot value of a field.
func (e *Entry) Original(field string) any {
	return e.original[field]
}

// CurrentValues recomputes the field values from the live entity.
func (e *Entry) CurrentValues() (map[string]any, error) {
	return typeinfo.FieldValues(e.info, e.entity)
}

// HasChanges reports whether any field of the live entity differs from the
// snapshot, compared by value.
func (e *Entry) HasChanges() (bool, error) {
	current, err := e.CurrentValues()
	if err != nil {
		return false, err
	}
	for _, b := range e.info.Bindings {
		if !typeinfo.EqualValue(e.original[b.Name], current[b.Name]) {
			return true, nil
		}
	}
	return false, nil
}

// ModifiedFields returns the names of the fields that differ from the
// snapshot, in declaration order.
func (e *Entry) ModifiedFields() ([]string, error) {
	current, err := e.CurrentValues()
	if err != nil {
		return nil, err
	}
	var fields []string
	for _, b := range e.info.Bindings {
		if !typeinfo.EqualValue(e.original[b.Name], current[b.Name]) {
			fields = append(fields, b.Name)
		}
	}
	return fields, nil
}

// Tracker is the identity-keyed registry of tracked entities. Entries keep
// insertion order so iteration and flushes are stable.
type Tracker struct {
	catalog *typeinfo.Catalog
	entries map[any]*Entry
	order   []any
}

// NewTracker returns an empty Tracker resolving metadata from catalog.
func NewTracker(catalog *typeinfo.Catalog) *Tracker {
	return &Tracker{
		catalog: catalog,
		entries: map[any]*Entry{},
	}
}

// Track registers the entity in the given state. Tracking an entity that
// already has an entry is idempotent: the existing entry is returned with
// its state replaced by the given one.
func (t *Tracker) Track(entity any, state State) (*Entry, error) {
	if entry, ok := t.entries[entity]; ok {
		entry.state = state
		return entry, nil
	}

	info, err := t.catalog.Resolve(entity)
	if err != nil {
		return nil, err
	}
	original, err := typeinfo.FieldValues(info, entity)
	if err != nil {
		return nil, err
	}
	entry := &Entry{entity: entity, info: info, state: state, original: original}
	t.entries[entity] = entry
	t.order = append(t.order, entity)
	return entry, nil
}

// IsTracking reports whether the entity instance has an entry.
func (t *Tracker) IsTracking(entity any) bool {
	_, ok := t.entries[entity]
	return ok
}

// Entry returns the entity's entry, if any.
func (t *Tracker) Entry(entity any) (*Entry, bool) {
	entry, ok := t.entries[entity]
	return entry, ok
}

// Untrack removes the entity's entry.
func (t *Tracker) Untrack(entity any) {
	if _, ok := t.entries[entity]; !ok {
		return
	}
	delete(t.entries, entity)
	for i, e := range t.order {
		if e == entity {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (t *Tracker) Clear() {
	t.entries = map[any]*Entry{}
	t.order = nil
}

// Entries returns every entry in insertion order.
func (t *Tracker) Entries() []*Entry {
	entries := make([]*Entry, 0, len(t.order))
	for _, key := range t.order {
		entries = append(entries, t.entries[key])
	}
	return entries
}

// EntriesByState returns the entries currently in the given state, in
// insertion order.
func (t *Tracker) EntriesByState(state State) []*Entry {
	var entries []*Entry
	for _, key := range t.order {
		if entry := t.entries[key]; entry.state == state {
			entries = append(entries, entry)
		}
	}
	return entries
}

// ChangedEntries returns the dirty set: entries in Added, Modified or
// Deleted state, in insertion order.
func (t *Tracker) ChangedEntries() []*Entry {
	var entries []*Entry
	for _, key := range t.order {
		switch entry := t.entries[key]; entry.state {
		case Added, Modified, Deleted:
			entries = append(entries, entry)
		}
	}
	return entries
}

// FindByKey returns the entry of the given entity type whose field
// currently holds the given value, compared by value. Row mapping uses it
// to reuse the instance already tracked for a row's identity.
func (t *Tracker) FindByKey(info *typeinfo.Info, field string, value any) (*Entry, bool) {
	for _, key := range t.order {
		entry := t.entries[key]
		if entry.info.Type != info.Type {
			continue
		}
		current, err := typeinfo.FieldValue(info, entry.entity, field)
		if err != nil {
			continue
		}
		if typeinfo.EqualValue(current, value) {
			return entry, true
		}
	}
	return nil, false
}

// DetectChanges diffs every Unchanged entry against its live entity and
// transitions those that differ to Modified. This is how in-place field
// mutation becomes visible to a flush without the entity reporting it.
func (t *Tracker) DetectChanges() error {
	for _, key := range t.order {
		entry := t.entries[key]
		if entry.state != Unchanged {
			continue
		}
		changed, err := entry.HasChanges()
		if err != nil {
			return err
		}
		if changed {
			entry.state = Modified
		}
	}
	return nil
}

// MarkDirty is the eager change-notification hook: entity-owning code calls
// it after mutating a field. An Unchanged entry transitions to Modified
// immediately, independent of DetectChanges.
func (t *Tracker) MarkDirty(entity any, field string) error {
	entry, ok := t.entries[entity]
	if !ok {
		return &EntityNotTrackedError{TypeName: fmt.Sprintf("%T", entity)}
	}
	if _, ok := entry.info.Binding(field); !ok {
		return fmt.Errorf("type %q has no mapped field %q", entry.info.Type.Name(), field)
	}
	if entry.state == Unchanged {
		entry.state = Modified
	}
	return nil
}

// AcceptAll resolves the post-flush state: Deleted entries leave tracking
// entirely, every other entry re-snapshots the live entity and resets to
// Unchanged. Callers invoke this only after a flush has durably committed
// its writes.
func (t *Tracker) AcceptAll() error {
	for _, key := range append([]any{}, t.order...) {
		entry := t.entries[key]
		if entry.state == Deleted {
			t.Untrack(entry.entity)
			continue
		}
		current, err := entry.CurrentValues()
		if err != nil {
			return err
		}
		entry.original = current
		entry.state = Unchanged
	}
	return nil
}
