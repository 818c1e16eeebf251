package drafts

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"storefront-cms/internal/models"
	"storefront-cms/internal/validation"
	errs "storefront-cms/pkg/errors"
)

// Collection field names, as used in change sets.
const (
	FieldImages            = "images"
	FieldAmenities         = "amenities"
	FieldPolicies          = "policies"
	FieldRooms             = "rooms"
	FieldGallery           = "gallery"
	FieldContactFields     = "contactFields"
	FieldFeatures          = "features"
	FieldAmenityCategories = "amenityCategories"
	FieldImage             = "image"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindFloat
	kindInt
)

type scalarField struct {
	kind fieldKind
	get  func(*models.Hotel) any
	set  func(*models.Hotel, any)
}

func stringField(p func(*models.Hotel) *string) scalarField {
	return scalarField{
		kind: kindString,
		get:  func(h *models.Hotel) any { return *p(h) },
		set:  func(h *models.Hotel, v any) { *p(h) = v.(string) },
	}
}

func floatField(p func(*models.Hotel) *float64) scalarField {
	return scalarField{
		kind: kindFloat,
		get:  func(h *models.Hotel) any { return *p(h) },
		set:  func(h *models.Hotel, v any) { *p(h) = v.(float64) },
	}
}

func intField(p func(*models.Hotel) *int) scalarField {
	return scalarField{
		kind: kindInt,
		get:  func(h *models.Hotel) any { return *p(h) },
		set:  func(h *models.Hotel, v any) { *p(h) = v.(int) },
	}
}

var scalarFields = map[string]scalarField{
	"name":          stringField(func(h *models.Hotel) *string { return &h.Name }),
	"slug":          stringField(func(h *models.Hotel) *string { return &h.Slug }),
	"location":      stringField(func(h *models.Hotel) *string { return &h.Location }),
	"address":       stringField(func(h *models.Hotel) *string { return &h.Address }),
	"city":          stringField(func(h *models.Hotel) *string { return &h.City }),
	"pincode":       stringField(func(h *models.Hotel) *string { return &h.Pincode }),
	"phone":         stringField(func(h *models.Hotel) *string { return &h.Phone }),
	"email":         stringField(func(h *models.Hotel) *string { return &h.Email }),
	"description":   stringField(func(h *models.Hotel) *string { return &h.Description }),
	FieldImage:      stringField(func(h *models.Hotel) *string { return &h.Image }),
	"checkInTime":   stringField(func(h *models.Hotel) *string { return &h.CheckInTime }),
	"checkOutTime":  stringField(func(h *models.Hotel) *string { return &h.CheckOutTime }),
	"startingPrice": floatField(func(h *models.Hotel) *float64 { return &h.StartingPrice }),
	"rating":        floatField(func(h *models.Hotel) *float64 { return &h.Rating }),
	"starRating":    intField(func(h *models.Hotel) *int { return &h.StarRating }),
}

var collectionFields = map[string]bool{
	FieldImages: true, FieldAmenities: true, FieldPolicies: true, FieldRooms: true,
	FieldGallery: true, FieldContactFields: true, FieldFeatures: true, FieldAmenityCategories: true,
}

// ScalarFields lists the field names SetField accepts, sorted.
func ScalarFields() []string {
	out := make([]string, 0, len(scalarFields))
	for k := range scalarFields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fieldValue returns a private copy of the named field of h.
func fieldValue(h *models.Hotel, field string) any {
	if h == nil {
		return nil
	}
	if f, ok := scalarFields[field]; ok {
		return f.get(h)
	}
	switch field {
	case FieldImages:
		return models.CloneStrings(h.Images)
	case FieldAmenities:
		return models.CloneStrings(h.Amenities)
	case FieldPolicies:
		return models.CloneStrings(h.Policies)
	case FieldRooms:
		return models.CloneRooms(h.Rooms)
	case FieldGallery:
		return models.CloneFlat(h.Gallery)
	case FieldContactFields:
		return models.CloneFlat(h.ContactFields)
	case FieldFeatures:
		return models.CloneFlat(h.Features)
	case FieldAmenityCategories:
		return models.CloneAmenityCategories(h.AmenityCategories)
	}
	return nil
}

// SetField assigns a scalar field of the working copy. JSON numbers are
// accepted for integer fields when they are integral.
func (s *Session) SetField(name string, value any) error {
	return s.SetFields(map[string]any{name: value})
}

// SetFields assigns several scalar fields at once. Either all are applied or none.
func (s *Session) SetFields(values map[string]any) error {
	const op = "drafts.SetField"
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	return s.mutate(op, names, func(h *models.Hotel) error {
		for _, name := range names {
			v, err := checkScalar(op, name, values[name])
			if err != nil {
				return err
			}
			scalarFields[name].set(h, v)
		}
		return nil
	})
}

func checkScalar(op, name string, raw any) (any, error) {
	switch name {
	case "id", "version":
		return nil, errs.NewFieldValidation(op, name, "field cannot be changed")
	}
	f, ok := scalarFields[name]
	if !ok {
		if collectionFields[name] {
			return nil, errs.NewFieldValidation(op, name, "collection fields have their own operations")
		}
		return nil, errs.NewFieldValidation(op, name, "unknown field")
	}
	v, err := coerce(f.kind, raw)
	if err != nil {
		return nil, errs.NewFieldValidation(op, name, err.Error())
	}
	if err := validation.ValidateField(name, v); err != nil {
		return nil, errs.NewFieldValidation(op, name, err.Error())
	}
	return v, nil
}

func coerce(kind fieldKind, raw any) (any, error) {
	switch kind {
	case kindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("must be a string, got %T", raw)
	case kindFloat:
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("must be a number, got %T", raw)
		}
		return f, nil
	case kindInt:
		f, ok := toFloat(raw)
		if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil, fmt.Errorf("must be a whole number")
		}
		return int(f), nil
	}
	return nil, fmt.Errorf("unsupported field kind")
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
