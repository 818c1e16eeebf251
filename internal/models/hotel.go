package models

// Hotel is a published storefront record as held by the catalog and edited in drafts.
type Hotel struct {
	ID            int64   `json:"id" yaml:"id"`
	Slug          string  `json:"slug" yaml:"slug"`
	Name          string  `json:"name" yaml:"name"`
	Location      string  `json:"location" yaml:"location"`
	Address       string  `json:"address" yaml:"address"`
	City          string  `json:"city" yaml:"city"`
	Pincode       string  `json:"pincode" yaml:"pincode"`
	Phone         string  `json:"phone" yaml:"phone"`
	Email         string  `json:"email" yaml:"email"`
	Description   string  `json:"description" yaml:"description"`
	Image         string  `json:"image" yaml:"image"` // main/cover image
	CheckInTime   string  `json:"checkInTime" yaml:"checkInTime"`
	CheckOutTime  string  `json:"checkOutTime" yaml:"checkOutTime"`
	StartingPrice float64 `json:"startingPrice" yaml:"startingPrice"`
	Rating        float64 `json:"rating" yaml:"rating"`
	StarRating    int     `json:"starRating" yaml:"starRating"`

	Images            []string          `json:"images" yaml:"images"`
	Amenities         []string          `json:"amenities" yaml:"amenities"`
	Policies          []string          `json:"policies" yaml:"policies"`
	Rooms             []Room            `json:"rooms" yaml:"rooms"`
	Gallery           []GalleryItem     `json:"gallery" yaml:"gallery"`
	ContactFields     []ContactField    `json:"contactFields" yaml:"contactFields"`
	Features          []Feature         `json:"features" yaml:"features"`
	AmenityCategories []AmenityCategory `json:"amenityCategories" yaml:"amenityCategories"`

	// Version is the catalog revision; bumped on every replace, never edited.
	Version uint64 `json:"version" yaml:"-"`
}

type Room struct {
	ID          int64    `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Price       float64  `json:"price" yaml:"price"`
	MaxGuests   int      `json:"maxGuests" yaml:"maxGuests"`
	BedType     string   `json:"bedType" yaml:"bedType"`
	Description string   `json:"description" yaml:"description"`
	Images      []string `json:"images" yaml:"images"`
	Amenities   []string `json:"amenities" yaml:"amenities"`
}

// RoomUpdate lists the room fields to overwrite. Nil fields are left alone;
// a non-nil empty slice clears the collection.
type RoomUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	MaxGuests   *int      `json:"maxGuests,omitempty"`
	BedType     *string   `json:"bedType,omitempty"`
	Description *string   `json:"description,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Amenities   *[]string `json:"amenities,omitempty"`
}

// Apply merges u into a copy of r.
func (u RoomUpdate) Apply(r Room) Room {
	out := r.Clone()
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Type != nil {
		out.Type = *u.Type
	}
	if u.Price != nil {
		out.Price = *u.Price
	}
	if u.MaxGuests != nil {
		out.MaxGuests = *u.MaxGuests
	}
	if u.BedType != nil {
		out.BedType = *u.BedType
	}
	if u.Description != nil {
		out.Description = *u.Description
	}
	if u.Images != nil {
		out.Images = cloneStrings(*u.Images)
		if out.Images == nil {
			out.Images = []string{}
		}
	}
	if u.Amenities != nil {
		out.Amenities = cloneStrings(*u.Amenities)
		if out.Amenities == nil {
			out.Amenities = []string{}
		}
	}
	return out
}

// Empty reports whether the update would change nothing.
func (u RoomUpdate) Empty() bool {
	return u.Name == nil && u.Type == nil && u.Price == nil && u.MaxGuests == nil &&
		u.BedType == nil && u.Description == nil && u.Images == nil && u.Amenities == nil
}

type GalleryItem struct {
	Title string `json:"title" yaml:"title"`
	Image string `json:"image" yaml:"image"`
}

type ContactField struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type Feature struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type AmenityCategory struct {
	Title string   `json:"title" yaml:"title"`
	Items []string `json:"items" yaml:"items"`
}

// Clone returns a deep copy sharing no slices with h.
func (h *Hotel) Clone() *Hotel {
	if h == nil {
		return nil
	}
	out := *h
	out.Images = cloneStrings(h.Images)
	out.Amenities = cloneStrings(h.Amenities)
	out.Policies = cloneStrings(h.Policies)
	out.Rooms = CloneRooms(h.Rooms)
	out.Gallery = cloneFlat(h.Gallery)
	out.ContactFields = cloneFlat(h.ContactFields)
	out.Features = cloneFlat(h.Features)
	out.AmenityCategories = CloneAmenityCategories(h.AmenityCategories)
	return &out
}

func (r Room) Clone() Room {
	r.Images = cloneStrings(r.Images)
	r.Amenities = cloneStrings(r.Amenities)
	return r
}

func (c AmenityCategory) Clone() AmenityCategory {
	c.Items = cloneStrings(c.Items)
	return c
}

func CloneRooms(rooms []Room) []Room {
	if rooms == nil {
		return nil
	}
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}

func CloneAmenityCategories(cats []AmenityCategory) []AmenityCategory {
	if cats == nil {
		return nil
	}
	out := make([]AmenityCategory, len(cats))
	for i, c := range cats {
		out[i] = c.Clone()
	}
	return out
}

// CloneStrings copies a string slice, preserving nil.
func CloneStrings(s []string) []string { return cloneStrings(s) }

// CloneFlat copies a slice of value-only structs, preserving nil.
func CloneFlat[T GalleryItem | ContactField | Feature](s []T) []T { return cloneFlat(s) }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneFlat[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// RoomIndex returns the position of the room with id, or -1.
func (h *Hotel) RoomIndex(id int64) int {
	for i := range h.Rooms {
		if h.Rooms[i].ID == id {
			return i
		}
	}
	return -1
}
