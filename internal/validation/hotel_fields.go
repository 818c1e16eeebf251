package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"storefront-cms/internal/models"
)

var (
	// slugRegex allows lowercase letters, digits and single hyphens between them
	slugRegex    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	phoneRegex   = regexp.MustCompile(`^[0-9+\-() ]+$`)
	emailRegex   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	pincodeRegex = regexp.MustCompile(`^[A-Za-z0-9 \-]{3,10}$`)
	clockRegex   = regexp.MustCompile(`^(?i)(([01]?[0-9]|2[0-3]):[0-5][0-9]|(0?[1-9]|1[0-2]):[0-5][0-9] ?(AM|PM))$`)
)

// ValidateName validates the hotel or room name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if len(name) > 200 {
		return fmt.Errorf("name must be less than 200 characters")
	}
	return nil
}

// ValidateSlug validates the storefront URL slug. Empty is allowed.
func ValidateSlug(slug string) error {
	if slug == "" {
		return nil
	}
	if len(slug) > 120 {
		return fmt.Errorf("slug must be less than 120 characters")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug can only contain lowercase letters, numbers and hyphens")
	}
	return nil
}

func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if len(addr) < 5 {
		return fmt.Errorf("address must be at least 5 characters")
	}
	if len(addr) > 500 {
		return fmt.Errorf("address must be less than 500 characters")
	}
	return nil
}

// ValidatePhone validates phone number (flexible international format)
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if len(phone) > 50 {
		return fmt.Errorf("phone must be less than 50 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone contains invalid characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func ValidatePincode(pin string) error {
	if pin == "" {
		return nil
	}
	if !pincodeRegex.MatchString(pin) {
		return fmt.Errorf("pincode must be 3-10 letters, digits, spaces or hyphens")
	}
	return nil
}

// ValidateImageURL accepts absolute http(s) URLs and site-relative paths.
func ValidateImageURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("image url cannot be empty")
	}
	if strings.HasPrefix(raw, "/") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image url must be an absolute http(s) url or a path starting with '/'")
	}
	return nil
}

// ValidateClock accepts "15:00" or "3:00 PM" style times. Empty is allowed.
func ValidateClock(v string) error {
	if v == "" {
		return nil
	}
	if !clockRegex.MatchString(strings.TrimSpace(v)) {
		return fmt.Errorf("time must look like 15:00 or 3:00 PM")
	}
	return nil
}

func ValidateDescription(desc string) error {
	if len(desc) > 5000 {
		return fmt.Errorf("description must be less than 5000 characters")
	}
	return nil
}

func ValidatePrice(p float64) error {
	if p < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ValidateRating validates the guest rating (0-5, fractional)
func ValidateRating(r float64) error {
	if r < 0 || r > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}

func ValidateStarRating(s int) error {
	if s < 0 || s > 5 {
		return fmt.Errorf("star rating must be between 0 and 5")
	}
	return nil
}

// ValidateLabel validates a short list entry (amenity, policy, category item).
func ValidateLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if len(label) > 200 {
		return fmt.Errorf("label must be less than 200 characters")
	}
	return nil
}

func ValidateLabels(labels []string) error {
	if len(labels) > 100 {
		return fmt.Errorf("too many entries (max 100)")
	}
	for _, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
	}
	return nil
}

// ValidateField checks an already-typed scalar value for the named hotel field.
// Unknown names pass; the caller decides which fields exist.
func ValidateField(name string, value any) error {
	switch v := value.(type) {
	case string:
		switch name {
		case "name":
			return ValidateName(v)
		case "slug":
			return ValidateSlug(v)
		case "address":
			return ValidateAddress(v)
		case "phone":
			return ValidatePhone(v)
		case "email":
			return ValidateEmail(v)
		case "pincode":
			return ValidatePincode(v)
		case "image":
			if v == "" {
				return nil
			}
			return ValidateImageURL(v)
		case "checkInTime", "checkOutTime":
			return ValidateClock(v)
		case "description":
			return ValidateDescription(v)
		}
	case float64:
		switch name {
		case "startingPrice":
			return ValidatePrice(v)
		case "rating":
			return ValidateRating(v)
		}
	case int:
		if name == "starRating" {
			return ValidateStarRating(v)
		}
	}
	return nil
}

// ValidateRoom validates a room as added or after an update is merged.
func ValidateRoom(r models.Room) error {
	if err := ValidateName(r.Name); err != nil {
		return fmt.Errorf("room %d: %w", r.ID, err)
	}
	if err := ValidatePrice(r.Price); err != nil {
		return fmt.Errorf("room %d: %w", r.ID, err)
	}
	if r.MaxGuests < 0 || r.MaxGuests > 50 {
		return fmt.Errorf("room %d: max guests must be between 0 and 50", r.ID)
	}
	for _, img := range r.Images {
		if err := ValidateImageURL(img); err != nil {
			return fmt.Errorf("room %d: %w", r.ID, err)
		}
	}
	if err := ValidateLabels(r.Amenities); err != nil {
		return fmt.Errorf("room %d: %w", r.ID, err)
	}
	return nil
}

// ValidateHotel validates a whole record before it is loaded into the catalog.
// Returns a map of field names to error messages.
func ValidateHotel(h *models.Hotel) map[string]string {
	problems := make(map[string]string)
	if h == nil {
		problems["hotel"] = "hotel is required"
		return problems
	}
	if h.ID <= 0 {
		problems["id"] = "must be a positive integer"
	}

	scalars := map[string]any{
		"name":          h.Name,
		"slug":          h.Slug,
		"address":       h.Address,
		"phone":         h.Phone,
		"email":         h.Email,
		"pincode":       h.Pincode,
		"image":         h.Image,
		"checkInTime":   h.CheckInTime,
		"checkOutTime":  h.CheckOutTime,
		"description":   h.Description,
		"startingPrice": h.StartingPrice,
		"rating":        h.Rating,
		"starRating":    h.StarRating,
	}
	for name, v := range scalars {
		if err := ValidateField(name, v); err != nil {
			problems[name] = err.Error()
		}
	}

	for _, img := range h.Images {
		if err := ValidateImageURL(img); err != nil {
			problems["images"] = err.Error()
			break
		}
	}
	if err := ValidateLabels(h.Amenities); err != nil {
		problems["amenities"] = err.Error()
	}
	if err := ValidateLabels(h.Policies); err != nil {
		problems["policies"] = err.Error()
	}

	seen := make(map[int64]bool, len(h.Rooms))
	for _, r := range h.Rooms {
		if seen[r.ID] {
			problems["rooms"] = fmt.Sprintf("duplicate room id %d", r.ID)
			break
		}
		seen[r.ID] = true
		if err := ValidateRoom(r); err != nil {
			problems["rooms"] = err.Error()
			break
		}
	}
	return problems
}
