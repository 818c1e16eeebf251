package drafts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms/internal/models"
)

func TestValuesEqualTreatsNilAndEmptyAlikeAtAnyDepth(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"top-level strings", []string(nil), []string{}, true},
		{"nested room amenities", []models.Room{{ID: 1}}, []models.Room{{ID: 1, Amenities: []string{}}}, true},
		{"nested category items", []models.AmenityCategory{{Title: "Spa"}}, []models.AmenityCategory{{Title: "Spa", Items: []string{}}}, true},
		{"nested difference", []models.Room{{ID: 1, Amenities: []string{"TV"}}}, []models.Room{{ID: 1}}, false},
		{"scalar", "a", "a", true},
		{"scalar difference", 1.5, 2.0, false},
		{"type mismatch", []string{}, []models.Feature{}, false},
		{"length mismatch", []string{"a"}, []string{"a", "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.a, tt.b))
		})
	}
}

func TestRoomRestoredToEmptyAmenitiesIsClean(t *testing.T) {
	f := newFixture(t, models.Hotel{
		ID:    7,
		Slug:  "lake-view",
		Name:  "Lake View",
		Rooms: []models.Room{{ID: 701, Name: "Lake Room", Price: 5000}},
	})
	s := f.open(t, "lake-view")

	require.NoError(t, s.UpdateRoom(701, models.RoomUpdate{Amenities: &[]string{"Sauna"}}))
	assert.True(t, s.HasUnsavedChanges())

	require.NoError(t, s.UpdateRoom(701, models.RoomUpdate{Amenities: &[]string{}}))
	assert.False(t, s.HasUnsavedChanges())
	assert.Empty(t, s.Changes())
}
