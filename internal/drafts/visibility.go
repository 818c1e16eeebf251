package drafts

import (
	"strings"

	errs "storefront-cms/pkg/errors"
)

// DefaultSections are the storefront sections shown unless hidden.
var DefaultSections = []string{"hero", "about", "features", "gallery", "amenities", "contact", "testimonials"}

func defaultVisibility() map[string]bool {
	v := make(map[string]bool, len(DefaultSections))
	for _, s := range DefaultSections {
		v[s] = true
	}
	return v
}

func copyVisibility(v map[string]bool) map[string]bool {
	out := make(map[string]bool, len(v))
	for k, b := range v {
		out[k] = b
	}
	return out
}

// Visibility returns a copy of the section visibility map. It is editor view
// state only; changes are not tracked and never published.
func (s *Session) Visibility() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyVisibility(s.visibility)
}

// SetVisibility shows or hides section. Unknown sections are added.
func (s *Session) SetVisibility(section string, visible bool) error {
	section = strings.TrimSpace(section)
	if section == "" {
		return errs.NewFieldValidation("drafts.SetVisibility", "section", "section name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibility[section] = visible
	s.touch()
	return nil
}

// ToggleVisibility flips section and returns the new value. Missing sections
// count as visible, so the first toggle hides them.
func (s *Session) ToggleVisibility(section string) (bool, error) {
	section = strings.TrimSpace(section)
	if section == "" {
		return false, errs.NewFieldValidation("drafts.ToggleVisibility", "section", "section name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.visibility[section]
	if !ok {
		cur = true
	}
	s.visibility[section] = !cur
	s.touch()
	return !cur, nil
}
