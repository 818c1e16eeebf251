package drafts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/internal/models"
	errs "storefront-cms/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestSetImage(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.SetImage("main", "/uploads/cover.jpg"))
	assert.Equal(t, "/uploads/cover.jpg", s.Editing().Image)
	assert.Contains(t, s.Changes(), FieldImage)

	require.NoError(t, s.SetImage("1", "https://img.example.com/new.jpg"))
	assert.Equal(t, []string{"https://img.example.com/1.jpg", "https://img.example.com/new.jpg"}, s.Editing().Images)

	for _, target := range []string{"2", "-1", "hero"} {
		err := s.SetImage(target, "https://img.example.com/x.jpg")
		assert.True(t, errs.Is(err, errs.ErrValidation), "target %q: %v", target, err)
	}
	err := s.SetImage("0", "ftp://nope")
	assert.True(t, errs.Is(err, errs.ErrValidation))
	assert.Len(t, s.Editing().Images, 2)
}

func TestAddAndRemoveImages(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.AddImage("https://img.example.com/3.jpg"))
	require.NoError(t, s.RemoveImage(0))
	assert.Equal(t, []string{"https://img.example.com/2.jpg", "https://img.example.com/3.jpg"}, s.Editing().Images)

	err := s.RemoveImage(5)
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestAmenityOperationsAreIdempotent(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.AddAmenity("WiFi"))
	assert.Empty(t, s.Changes(), "adding a present amenity is a no-op")

	require.NoError(t, s.RemoveAmenity("Helipad"))
	assert.Empty(t, s.Changes())

	require.NoError(t, s.RemoveAmenity("WiFi"))
	assert.Equal(t, Change{Old: []string{"WiFi"}, New: []string{}}, s.Changes()[FieldAmenities])

	assert.True(t, errs.Is(s.AddAmenity("   "), errs.ErrValidation))
}

func TestSetAmenitiesAndPoliciesWholesale(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.SetAmenities([]string{"WiFi", "Spa", "Pool"}))
	require.NoError(t, s.SetPolicies([]string{"Check-in from 14:00"}))
	ch := s.Changes()
	assert.Equal(t, []string{"WiFi", "Spa", "Pool"}, ch[FieldAmenities].New)
	assert.Equal(t, []string{"Check-in from 14:00"}, ch[FieldPolicies].New)

	// nil policies on the original equal an explicit empty list
	require.NoError(t, s.SetPolicies([]string{}))
	assert.NotContains(t, s.Changes(), FieldPolicies)
}

func TestUpdateRoomKeepsUntouchedFields(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")
	price := 15000.0

	require.NoError(t, s.UpdateRoom(401, models.RoomUpdate{Price: &price}))
	room := s.Editing().Rooms[0]
	assert.Equal(t, 15000.0, room.Price)
	assert.Equal(t, "Luxury Palace Room", room.Name)
	assert.Equal(t, []string{"https://img.example.com/r1.jpg"}, room.Images)
	assert.Equal(t, []string{"TV"}, room.Amenities)

	ch := s.Changes()[FieldRooms]
	assert.Equal(t, 12000.0, ch.Old.([]models.Room)[0].Price)
	assert.Equal(t, 15000.0, ch.New.([]models.Room)[0].Price)
}

func TestUpdateRoomErrors(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	err := s.UpdateRoom(999, models.RoomUpdate{Name: strPtr("x")})
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	err = s.UpdateRoom(401, models.RoomUpdate{Name: strPtr("")})
	assert.True(t, errs.Is(err, errs.ErrValidation))

	require.NoError(t, s.UpdateRoom(401, models.RoomUpdate{}))
	assert.Empty(t, s.Changes())
}

func TestAddRoomAssignsID(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.AddRoom(models.Room{Name: "Garden Suite", Price: 22000}))
	rooms := s.Editing().Rooms
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(402), rooms[1].ID)

	err := s.AddRoom(models.Room{ID: 401, Name: "Dup", Price: 1})
	assert.True(t, errs.Is(err, errs.ErrValidation))

	err = s.AddRoom(models.Room{Name: "Negative", Price: -5})
	assert.True(t, errs.Is(err, errs.ErrValidation))
	assert.Len(t, s.Editing().Rooms, 2)
}

func TestRemoveRoom(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	assert.True(t, errs.Is(s.RemoveRoom(999), errs.ErrNotFound))
	require.NoError(t, s.RemoveRoom(401))
	assert.Empty(t, s.Editing().Rooms)
	assert.Len(t, s.Changes()[FieldRooms].Old, 1)
}

func TestGalleryContactAndFeatureLists(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.AddGalleryItem(models.GalleryItem{Title: "Pool", Image: "/g/pool.jpg"}))
	require.NoError(t, s.UpdateGalleryItem(0, models.GalleryItem{Title: "Lobby", Image: "/g/lobby.jpg"}))
	require.NoError(t, s.RemoveGalleryItem(1))
	assert.Equal(t, []models.GalleryItem{{Title: "Lobby", Image: "/g/lobby.jpg"}}, s.Editing().Gallery)
	assert.True(t, errs.Is(s.UpdateGalleryItem(3, models.GalleryItem{Image: "/x.jpg"}), errs.ErrValidation))
	assert.True(t, errs.Is(s.AddGalleryItem(models.GalleryItem{Title: "No image"}), errs.ErrValidation))

	require.NoError(t, s.AddContactField(models.ContactField{Label: "Email", Value: "stay@taj.example"}))
	require.NoError(t, s.UpdateContactField(0, models.ContactField{Label: "Reservations", Value: "+91 11 0000 0000"}))
	require.NoError(t, s.RemoveContactField(1))
	assert.Equal(t, []models.ContactField{{Label: "Reservations", Value: "+91 11 0000 0000"}}, s.Editing().ContactFields)

	require.NoError(t, s.AddFeature(models.Feature{Title: "Rooftop Dining"}))
	require.NoError(t, s.UpdateFeature(1, models.Feature{Title: "Rooftop Dining", Description: "Open late"}))
	require.NoError(t, s.RemoveFeature(0))
	assert.Equal(t, []models.Feature{{Title: "Rooftop Dining", Description: "Open late"}}, s.Editing().Features)
	assert.True(t, errs.Is(s.RemoveFeature(4), errs.ErrValidation))

	assert.ElementsMatch(t, []string{FieldGallery, FieldContactFields, FieldFeatures}, s.Changes().Fields())

	require.NoError(t, s.SetGallery(tajPalace().Gallery))
	require.NoError(t, s.SetContactFields(tajPalace().ContactFields))
	require.NoError(t, s.SetFeatures(tajPalace().Features))
	assert.Empty(t, s.Changes())
}

func TestAmenityCategories(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.AddAmenityCategory(models.AmenityCategory{Title: "Dining"}))
	cats := s.Editing().AmenityCategories
	require.Len(t, cats, 2)
	assert.Equal(t, []string{}, cats[1].Items)

	require.NoError(t, s.AddAmenityToCategory(1, "Rooftop Bar"))
	require.NoError(t, s.AddAmenityToCategory(0, "Sauna"))
	require.NoError(t, s.RemoveAmenityFromCategory(0, 0))
	cats = s.Editing().AmenityCategories
	assert.Equal(t, []string{"Sauna"}, cats[0].Items)
	assert.Equal(t, []string{"Rooftop Bar"}, cats[1].Items)

	assert.True(t, errs.Is(s.AddAmenityToCategory(7, "x"), errs.ErrValidation))
	assert.True(t, errs.Is(s.RemoveAmenityFromCategory(0, 9), errs.ErrValidation))

	require.NoError(t, s.RemoveAmenityCategory(1))
	require.NoError(t, s.SetAmenityCategories([]models.AmenityCategory{{Title: "Wellness", Items: []string{"Luxury Spa"}}}))
	assert.Empty(t, s.Changes())
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	for _, sec := range DefaultSections {
		assert.True(t, s.Visibility()[sec], sec)
	}

	visible, err := s.ToggleVisibility("gallery")
	require.NoError(t, err)
	assert.False(t, visible)
	visible, err = s.ToggleVisibility("gallery")
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = s.ToggleVisibility("offers")
	require.NoError(t, err)
	assert.False(t, visible, "unknown sections start visible")

	require.NoError(t, s.SetVisibility("contact", false))
	assert.False(t, s.Visibility()["contact"])
	assert.Empty(t, s.Changes(), "visibility is not a content change")

	_, err = s.ToggleVisibility(" ")
	assert.True(t, errs.Is(err, errs.ErrValidation))

	require.NoError(t, s.Open(ctx, "grand-luxury-resort"))
	assert.True(t, s.Visibility()["contact"], "open resets visibility")
}

func TestSetFieldCoercesNumbers(t *testing.T) {
	f := newFixture(t)
	s := f.open(t, "taj-palace")

	require.NoError(t, s.SetFields(map[string]any{
		"startingPrice": 9500,
		"rating":        float32(4.5),
		"starRating":    int64(5),
	}))
	h := s.Editing()
	assert.Equal(t, 9500.0, h.StartingPrice)
	assert.Equal(t, 4.5, h.Rating)
	assert.Equal(t, 5, h.StarRating)
}
