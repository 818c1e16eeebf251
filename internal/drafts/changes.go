package drafts

import (
	"reflect"
	"sort"

	"storefront-cms/internal/models"
)

// Change is the before/after pair for one field. Collections are recorded whole.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeSet maps field name to its change.
type ChangeSet map[string]Change

// Fields returns the changed field names, sorted.
func (c ChangeSet) Fields() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone copies the set and every recorded value.
func (c ChangeSet) Clone() ChangeSet {
	out := make(ChangeSet, len(c))
	for k, v := range c {
		out[k] = Change{Old: cloneValue(v.Old), New: cloneValue(v.New)}
	}
	return out
}

// merge folds newer into c keeping the earliest Old and the latest New.
// Entries that end up back at their Old value are dropped.
func (c ChangeSet) merge(newer ChangeSet) {
	for field, ch := range newer {
		if prev, ok := c[field]; ok {
			ch.Old = prev.Old
		}
		if valuesEqual(ch.Old, ch.New) {
			delete(c, field)
			continue
		}
		c[field] = Change{Old: cloneValue(ch.Old), New: cloneValue(ch.New)}
	}
}

// record compares field between original and editing and keeps the entry in
// sync: present iff the values differ.
func (c ChangeSet) record(field string, original, editing *models.Hotel) {
	oldV := fieldValue(original, field)
	newV := fieldValue(editing, field)
	if valuesEqual(oldV, newV) {
		delete(c, field)
		return
	}
	c[field] = Change{Old: oldV, New: newV}
}

// valuesEqual is structural equality where a nil and an empty slice are the
// same at any depth, so a room whose amenities went from nil to empty is unchanged.
func valuesEqual(a, b any) bool {
	return equalValues(reflect.ValueOf(a), reflect.ValueOf(b))
}

func equalValues(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equalValues(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equalValues(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalValues(a.Elem(), b.Elem())
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		for _, k := range a.MapKeys() {
			bv := b.MapIndex(k)
			if !bv.IsValid() || !equalValues(a.MapIndex(k), bv) {
				return false
			}
		}
		return true
	default:
		if a.CanInterface() && b.CanInterface() {
			return reflect.DeepEqual(a.Interface(), b.Interface())
		}
		return false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return models.CloneStrings(t)
	case []models.Room:
		return models.CloneRooms(t)
	case []models.GalleryItem:
		return models.CloneFlat(t)
	case []models.ContactField:
		return models.CloneFlat(t)
	case []models.Feature:
		return models.CloneFlat(t)
	case []models.AmenityCategory:
		return models.CloneAmenityCategories(t)
	default:
		return v
	}
}
