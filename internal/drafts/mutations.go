package drafts

import (
	"fmt"
	"strconv"
	"strings"

	"storefront-cms/internal/models"
	"storefront-cms/internal/validation"
	errs "storefront-cms/pkg/errors"
)

// MainImage addresses the cover image in SetImage.
const MainImage = "main"

func checkIndex(op, field string, i, n int) error {
	if i < 0 || i >= n {
		return errs.NewFieldValidation(op, field, fmt.Sprintf("index %d out of range [0,%d)", i, n))
	}
	return nil
}

func fieldErr(op, field string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewFieldValidation(op, field, err.Error())
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// Images

// SetImage replaces the cover image when target is "main", otherwise the
// gallery image at the decimal index target. Out-of-range indexes are rejected.
func (s *Session) SetImage(target, url string) error {
	const op = "drafts.SetImage"
	if strings.EqualFold(strings.TrimSpace(target), MainImage) {
		return s.mutate(op, []string{FieldImage}, func(h *models.Hotel) error {
			if err := validation.ValidateImageURL(url); err != nil {
				return fieldErr(op, FieldImage, err)
			}
			h.Image = url
			return nil
		})
	}
	return s.mutate(op, []string{FieldImages}, func(h *models.Hotel) error {
		i, err := strconv.Atoi(strings.TrimSpace(target))
		if err != nil {
			return errs.NewFieldValidation(op, FieldImages, fmt.Sprintf("index %q is neither %q nor a number", target, MainImage))
		}
		if err := checkIndex(op, FieldImages, i, len(h.Images)); err != nil {
			return err
		}
		if err := validation.ValidateImageURL(url); err != nil {
			return fieldErr(op, FieldImages, err)
		}
		h.Images[i] = url
		return nil
	})
}

func (s *Session) AddImage(url string) error {
	const op = "drafts.AddImage"
	return s.mutate(op, []string{FieldImages}, func(h *models.Hotel) error {
		if err := validation.ValidateImageURL(url); err != nil {
			return fieldErr(op, FieldImages, err)
		}
		h.Images = append(h.Images, url)
		return nil
	})
}

func (s *Session) RemoveImage(index int) error {
	const op = "drafts.RemoveImage"
	return s.mutate(op, []string{FieldImages}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldImages, index, len(h.Images)); err != nil {
			return err
		}
		h.Images = removeAt(h.Images, index)
		return nil
	})
}

// Amenities and policies

func (s *Session) SetAmenities(labels []string) error {
	const op = "drafts.SetAmenities"
	return s.mutate(op, []string{FieldAmenities}, func(h *models.Hotel) error {
		if err := validation.ValidateLabels(labels); err != nil {
			return fieldErr(op, FieldAmenities, err)
		}
		h.Amenities = models.CloneStrings(labels)
		return nil
	})
}

// AddAmenity appends label unless it is already present.
func (s *Session) AddAmenity(label string) error {
	const op = "drafts.AddAmenity"
	return s.mutate(op, []string{FieldAmenities}, func(h *models.Hotel) error {
		if err := validation.ValidateLabel(label); err != nil {
			return fieldErr(op, FieldAmenities, err)
		}
		for _, a := range h.Amenities {
			if a == label {
				return nil
			}
		}
		h.Amenities = append(h.Amenities, label)
		return nil
	})
}

// RemoveAmenity drops every occurrence of label; a missing label is a no-op.
func (s *Session) RemoveAmenity(label string) error {
	const op = "drafts.RemoveAmenity"
	return s.mutate(op, []string{FieldAmenities}, func(h *models.Hotel) error {
		kept := make([]string, 0, len(h.Amenities))
		for _, a := range h.Amenities {
			if a != label {
				kept = append(kept, a)
			}
		}
		if len(kept) != len(h.Amenities) {
			h.Amenities = kept
		}
		return nil
	})
}

func (s *Session) SetPolicies(policies []string) error {
	const op = "drafts.SetPolicies"
	return s.mutate(op, []string{FieldPolicies}, func(h *models.Hotel) error {
		if err := validation.ValidateLabels(policies); err != nil {
			return fieldErr(op, FieldPolicies, err)
		}
		h.Policies = models.CloneStrings(policies)
		return nil
	})
}

// Rooms

// AddRoom appends room. A zero id is replaced by the next free id.
func (s *Session) AddRoom(room models.Room) error {
	const op = "drafts.AddRoom"
	return s.mutate(op, []string{FieldRooms}, func(h *models.Hotel) error {
		r := room.Clone()
		if r.ID == 0 {
			r.ID = nextRoomID(h)
		}
		if h.RoomIndex(r.ID) >= 0 {
			return errs.NewFieldValidation(op, FieldRooms, fmt.Sprintf("room %d already exists", r.ID))
		}
		if err := validation.ValidateRoom(r); err != nil {
			return fieldErr(op, FieldRooms, err)
		}
		h.Rooms = append(h.Rooms, r)
		return nil
	})
}

// UpdateRoom merges the non-nil fields of upd into the room with roomID.
func (s *Session) UpdateRoom(roomID int64, upd models.RoomUpdate) error {
	const op = "drafts.UpdateRoom"
	return s.mutate(op, []string{FieldRooms}, func(h *models.Hotel) error {
		i := h.RoomIndex(roomID)
		if i < 0 {
			return errs.NewNotFound(op, fmt.Sprintf("room %d", roomID))
		}
		if upd.Empty() {
			return nil
		}
		merged := upd.Apply(h.Rooms[i])
		if err := validation.ValidateRoom(merged); err != nil {
			return fieldErr(op, FieldRooms, err)
		}
		h.Rooms[i] = merged
		return nil
	})
}

func (s *Session) RemoveRoom(roomID int64) error {
	const op = "drafts.RemoveRoom"
	return s.mutate(op, []string{FieldRooms}, func(h *models.Hotel) error {
		i := h.RoomIndex(roomID)
		if i < 0 {
			return errs.NewNotFound(op, fmt.Sprintf("room %d", roomID))
		}
		h.Rooms = removeAt(h.Rooms, i)
		return nil
	})
}

func nextRoomID(h *models.Hotel) int64 {
	next := h.ID * 100
	for _, r := range h.Rooms {
		if r.ID >= next {
			next = r.ID
		}
	}
	return next + 1
}

// Gallery

func (s *Session) AddGalleryItem(item models.GalleryItem) error {
	const op = "drafts.AddGalleryItem"
	return s.mutate(op, []string{FieldGallery}, func(h *models.Hotel) error {
		if err := validation.ValidateImageURL(item.Image); err != nil {
			return fieldErr(op, FieldGallery, err)
		}
		h.Gallery = append(h.Gallery, item)
		return nil
	})
}

func (s *Session) UpdateGalleryItem(index int, item models.GalleryItem) error {
	const op = "drafts.UpdateGalleryItem"
	return s.mutate(op, []string{FieldGallery}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldGallery, index, len(h.Gallery)); err != nil {
			return err
		}
		if err := validation.ValidateImageURL(item.Image); err != nil {
			return fieldErr(op, FieldGallery, err)
		}
		h.Gallery[index] = item
		return nil
	})
}

func (s *Session) RemoveGalleryItem(index int) error {
	const op = "drafts.RemoveGalleryItem"
	return s.mutate(op, []string{FieldGallery}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldGallery, index, len(h.Gallery)); err != nil {
			return err
		}
		h.Gallery = removeAt(h.Gallery, index)
		return nil
	})
}

func (s *Session) SetGallery(items []models.GalleryItem) error {
	const op = "drafts.SetGallery"
	return s.mutate(op, []string{FieldGallery}, func(h *models.Hotel) error {
		for _, it := range items {
			if err := validation.ValidateImageURL(it.Image); err != nil {
				return fieldErr(op, FieldGallery, err)
			}
		}
		h.Gallery = models.CloneFlat(items)
		return nil
	})
}

// Contact fields

func (s *Session) AddContactField(f models.ContactField) error {
	const op = "drafts.AddContactField"
	return s.mutate(op, []string{FieldContactFields}, func(h *models.Hotel) error {
		if err := validation.ValidateLabel(f.Label); err != nil {
			return fieldErr(op, FieldContactFields, err)
		}
		h.ContactFields = append(h.ContactFields, f)
		return nil
	})
}

func (s *Session) UpdateContactField(index int, f models.ContactField) error {
	const op = "drafts.UpdateContactField"
	return s.mutate(op, []string{FieldContactFields}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldContactFields, index, len(h.ContactFields)); err != nil {
			return err
		}
		if err := validation.ValidateLabel(f.Label); err != nil {
			return fieldErr(op, FieldContactFields, err)
		}
		h.ContactFields[index] = f
		return nil
	})
}

func (s *Session) RemoveContactField(index int) error {
	const op = "drafts.RemoveContactField"
	return s.mutate(op, []string{FieldContactFields}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldContactFields, index, len(h.ContactFields)); err != nil {
			return err
		}
		h.ContactFields = removeAt(h.ContactFields, index)
		return nil
	})
}

func (s *Session) SetContactFields(fields []models.ContactField) error {
	const op = "drafts.SetContactFields"
	return s.mutate(op, []string{FieldContactFields}, func(h *models.Hotel) error {
		for _, f := range fields {
			if err := validation.ValidateLabel(f.Label); err != nil {
				return fieldErr(op, FieldContactFields, err)
			}
		}
		h.ContactFields = models.CloneFlat(fields)
		return nil
	})
}

// Features

func (s *Session) AddFeature(f models.Feature) error {
	const op = "drafts.AddFeature"
	return s.mutate(op, []string{FieldFeatures}, func(h *models.Hotel) error {
		if err := validation.ValidateLabel(f.Title); err != nil {
			return fieldErr(op, FieldFeatures, err)
		}
		h.Features = append(h.Features, f)
		return nil
	})
}

func (s *Session) UpdateFeature(index int, f models.Feature) error {
	const op = "drafts.UpdateFeature"
	return s.mutate(op, []string{FieldFeatures}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldFeatures, index, len(h.Features)); err != nil {
			return err
		}
		if err := validation.ValidateLabel(f.Title); err != nil {
			return fieldErr(op, FieldFeatures, err)
		}
		h.Features[index] = f
		return nil
	})
}

func (s *Session) RemoveFeature(index int) error {
	const op = "drafts.RemoveFeature"
	return s.mutate(op, []string{FieldFeatures}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldFeatures, index, len(h.Features)); err != nil {
			return err
		}
		h.Features = removeAt(h.Features, index)
		return nil
	})
}

func (s *Session) SetFeatures(features []models.Feature) error {
	const op = "drafts.SetFeatures"
	return s.mutate(op, []string{FieldFeatures}, func(h *models.Hotel) error {
		for _, f := range features {
			if err := validation.ValidateLabel(f.Title); err != nil {
				return fieldErr(op, FieldFeatures, err)
			}
		}
		h.Features = models.CloneFlat(features)
		return nil
	})
}

// Amenity categories

func (s *Session) AddAmenityCategory(cat models.AmenityCategory) error {
	const op = "drafts.AddAmenityCategory"
	return s.mutate(op, []string{FieldAmenityCategories}, func(h *models.Hotel) error {
		if err := validation.ValidateLabel(cat.Title); err != nil {
			return fieldErr(op, FieldAmenityCategories, err)
		}
		if err := validation.ValidateLabels(cat.Items); err != nil {
			return fieldErr(op, FieldAmenityCategories, err)
		}
		c := cat.Clone()
		if c.Items == nil {
			c.Items = []string{}
		}
		h.AmenityCategories = append(h.AmenityCategories, c)
		return nil
	})
}

func (s *Session) RemoveAmenityCategory(index int) error {
	const op = "drafts.RemoveAmenityCategory"
	return s.mutate(op, []string{FieldAmenityCategories}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldAmenityCategories, index, len(h.AmenityCategories)); err != nil {
			return err
		}
		h.AmenityCategories = removeAt(h.AmenityCategories, index)
		return nil
	})
}

func (s *Session) AddAmenityToCategory(catIndex int, label string) error {
	const op = "drafts.AddAmenityToCategory"
	return s.mutate(op, []string{FieldAmenityCategories}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldAmenityCategories, catIndex, len(h.AmenityCategories)); err != nil {
			return err
		}
		if err := validation.ValidateLabel(label); err != nil {
			return fieldErr(op, FieldAmenityCategories, err)
		}
		cat := &h.AmenityCategories[catIndex]
		cat.Items = append(cat.Items, label)
		return nil
	})
}

func (s *Session) RemoveAmenityFromCategory(catIndex, itemIndex int) error {
	const op = "drafts.RemoveAmenityFromCategory"
	return s.mutate(op, []string{FieldAmenityCategories}, func(h *models.Hotel) error {
		if err := checkIndex(op, FieldAmenityCategories, catIndex, len(h.AmenityCategories)); err != nil {
			return err
		}
		cat := &h.AmenityCategories[catIndex]
		if err := checkIndex(op, FieldAmenityCategories, itemIndex, len(cat.Items)); err != nil {
			return err
		}
		cat.Items = removeAt(cat.Items, itemIndex)
		return nil
	})
}

func (s *Session) SetAmenityCategories(cats []models.AmenityCategory) error {
	const op = "drafts.SetAmenityCategories"
	return s.mutate(op, []string{FieldAmenityCategories}, func(h *models.Hotel) error {
		for _, c := range cats {
			if err := validation.ValidateLabel(c.Title); err != nil {
				return fieldErr(op, FieldAmenityCategories, err)
			}
			if err := validation.ValidateLabels(c.Items); err != nil {
				return fieldErr(op, FieldAmenityCategories, err)
			}
		}
		h.AmenityCategories = models.CloneAmenityCategories(cats)
		return nil
	})
}
