package validation

import (
	"strings"
	"testing"

	"storefront-cms/internal/models"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		wantErr bool
	}{
		{"valid name", "name", "Taj Palace Deluxe", false},
		{"short name", "name", "T", true},
		{"blank name", "name", "   ", true},
		{"empty slug allowed", "slug", "", false},
		{"valid slug", "slug", "taj-palace", false},
		{"slug with spaces", "slug", "taj palace", true},
		{"slug uppercase", "slug", "Taj-Palace", true},
		{"phone", "phone", "+91 11 6651 2233", false},
		{"phone letters", "phone", "call me", true},
		{"email", "email", "reservations@tajpalace.com", false},
		{"bad email", "email", "reservations", true},
		{"pincode", "pincode", "110011", false},
		{"bad pincode", "pincode", "1", true},
		{"cover image https", "image", "https://images.example.com/a.jpg", false},
		{"cover image relative", "image", "/img/a.jpg", false},
		{"cover image cleared", "image", "", false},
		{"cover image ftp", "image", "ftp://x/a.jpg", true},
		{"check in 12h", "checkInTime", "3:00 PM", false},
		{"check in 24h", "checkInTime", "15:00", false},
		{"check out junk", "checkOutTime", "noon", true},
		{"price", "startingPrice", 12000.0, false},
		{"negative price", "startingPrice", -1.0, true},
		{"rating", "rating", 4.8, false},
		{"rating too high", "rating", 5.5, true},
		{"stars", "starRating", 5, false},
		{"stars too high", "starRating", 6, true},
		{"unknown field passes", "city", "anything", false},
		{"long description", "description", strings.Repeat("x", 5001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateField(%q, %v) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabels(t *testing.T) {
	if err := ValidateLabels([]string{"WiFi", "Spa"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateLabels([]string{"WiFi", " "}); err == nil {
		t.Fatal("expected blank label to fail")
	}
	if err := ValidateLabels(make([]string, 101)); err == nil {
		t.Fatal("expected too many labels to fail")
	}
}

func TestValidateRoom(t *testing.T) {
	ok := models.Room{ID: 401, Name: "Luxury Palace Room", Price: 12000, MaxGuests: 2, Images: []string{"https://x.example/r.jpg"}}
	if err := ValidateRoom(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := ok
	bad.Price = -5
	if err := ValidateRoom(bad); err == nil || !strings.Contains(err.Error(), "room 401") {
		t.Fatalf("expected room-scoped price error, got %v", err)
	}
}

func TestValidateHotel(t *testing.T) {
	h := &models.Hotel{
		ID:         4,
		Slug:       "taj-palace",
		Name:       "Taj Palace",
		Email:      "not-an-email",
		StarRating: 9,
		Amenities:  []string{"WiFi", ""},
		Rooms:      []models.Room{{ID: 1, Name: "Room A"}, {ID: 1, Name: "Room B"}},
	}
	problems := ValidateHotel(h)
	for _, field := range []string{"email", "starRating", "amenities", "rooms"} {
		if _, ok := problems[field]; !ok {
			t.Errorf("expected problem for %s, got %v", field, problems)
		}
	}
	if _, ok := problems["name"]; ok {
		t.Errorf("name should be valid: %v", problems)
	}

	if p := ValidateHotel(nil); p["hotel"] == "" {
		t.Errorf("nil hotel should be reported")
	}
	if p := ValidateHotel(&models.Hotel{ID: 1, Name: "Valid Hotel"}); len(p) != 0 {
		t.Errorf("minimal hotel should validate, got %v", p)
	}
}
