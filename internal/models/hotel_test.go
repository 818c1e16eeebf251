package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHotel() *Hotel {
	return &Hotel{
		ID:        4,
		Slug:      "taj-palace",
		Name:      "Taj Palace",
		Images:    []string{"a.jpg", "b.jpg"},
		Amenities: []string{"WiFi"},
		Policies:  []string{"No smoking"},
		Rooms: []Room{
			{ID: 401, Name: "Luxury Palace Room", Images: []string{"r1.jpg"}, Amenities: []string{"TV"}},
		},
		Gallery:           []GalleryItem{{Title: "Grand Entrance", Image: "g.jpg"}},
		ContactFields:     []ContactField{{Label: "Phone", Value: "+91 11 6651 2233"}},
		Features:          []Feature{{Title: "Legendary Service"}},
		AmenityCategories: []AmenityCategory{{Title: "Wellness", Items: []string{"Spa"}}},
		Version:           3,
	}
}

func TestCloneSharesNothing(t *testing.T) {
	h := sampleHotel()
	c := h.Clone()
	require.Equal(t, h, c)

	c.Images[0] = "changed.jpg"
	c.Amenities = append(c.Amenities, "Spa")
	c.Rooms[0].Images[0] = "changed.jpg"
	c.Rooms[0].Name = "Other"
	c.Gallery[0].Title = "Other"
	c.ContactFields[0].Value = "x"
	c.Features[0].Title = "x"
	c.AmenityCategories[0].Items[0] = "Sauna"

	assert.Equal(t, "a.jpg", h.Images[0])
	assert.Equal(t, []string{"WiFi"}, h.Amenities)
	assert.Equal(t, "r1.jpg", h.Rooms[0].Images[0])
	assert.Equal(t, "Luxury Palace Room", h.Rooms[0].Name)
	assert.Equal(t, "Grand Entrance", h.Gallery[0].Title)
	assert.Equal(t, "+91 11 6651 2233", h.ContactFields[0].Value)
	assert.Equal(t, "Legendary Service", h.Features[0].Title)
	assert.Equal(t, "Spa", h.AmenityCategories[0].Items[0])
}

func TestCloneNil(t *testing.T) {
	var h *Hotel
	assert.Nil(t, h.Clone())

	empty := (&Hotel{ID: 1}).Clone()
	assert.Nil(t, empty.Images)
	assert.Nil(t, empty.Rooms)
}

func TestRoomUpdateApplyMergesOnlySetFields(t *testing.T) {
	room := Room{ID: 401, Name: "Luxury", Price: 12000, Images: []string{"r1.jpg"}, Amenities: []string{"TV"}}
	price := 15000.0
	empty := []string{}

	got := RoomUpdate{Price: &price, Amenities: &empty}.Apply(room)

	assert.Equal(t, 15000.0, got.Price)
	assert.Equal(t, "Luxury", got.Name)
	assert.Equal(t, []string{"r1.jpg"}, got.Images)
	assert.Equal(t, []string{}, got.Amenities)

	got.Images[0] = "mutated.jpg"
	assert.Equal(t, "r1.jpg", room.Images[0], "Apply must not alias the source room")
}

func TestRoomUpdateEmpty(t *testing.T) {
	assert.True(t, RoomUpdate{}.Empty())
	name := "x"
	assert.False(t, RoomUpdate{Name: &name}.Empty())
}

func TestRoomIndex(t *testing.T) {
	h := sampleHotel()
	assert.Equal(t, 0, h.RoomIndex(401))
	assert.Equal(t, -1, h.RoomIndex(999))
}
