package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront-cms/internal/drafts"
	"storefront-cms/internal/models"
	errs "storefront-cms/pkg/errors"
)

type fieldsRequest struct {
	Field  string         `json:"field"`
	Value  any            `json:"value"`
	Fields map[string]any `json:"fields"`
}

// setFields accepts either a single {"field","value"} pair or a "fields" map
// applied atomically.
func setFields(r *http.Request, s *drafts.Session) error {
	var req fieldsRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	if len(req.Fields) > 0 {
		return s.SetFields(req.Fields)
	}
	if req.Field == "" {
		return errs.NewFieldValidation("admin.fields", "field", "is required")
	}
	return s.SetField(req.Field, req.Value)
}

type urlRequest struct {
	URL string `json:"url"`
}

func addImage(r *http.Request, s *drafts.Session) error {
	var req urlRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.AddImage(req.URL)
}

// setImage handles PUT .../images/{index}; index may be "main".
func setImage(r *http.Request, s *drafts.Session) error {
	var req urlRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetImage(mux.Vars(r)["index"], req.URL)
}

func removeImage(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	return s.RemoveImage(i)
}

type itemsRequest struct {
	Items []string `json:"items"`
}

type labelRequest struct {
	Label string `json:"label"`
}

func setAmenities(r *http.Request, s *drafts.Session) error {
	var req itemsRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetAmenities(req.Items)
}

func addAmenity(r *http.Request, s *drafts.Session) error {
	var req labelRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.AddAmenity(req.Label)
}

func removeAmenity(r *http.Request, s *drafts.Session) error {
	return s.RemoveAmenity(mux.Vars(r)["label"])
}

func setPolicies(r *http.Request, s *drafts.Session) error {
	var req itemsRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetPolicies(req.Items)
}

// Rooms

func addRoom(r *http.Request, s *drafts.Session) error {
	var room models.Room
	if err := decode(r, &room, false); err != nil {
		return err
	}
	return s.AddRoom(room)
}

func updateRoom(r *http.Request, s *drafts.Session) error {
	id, err := pathInt64(r, "roomID")
	if err != nil {
		return err
	}
	var upd models.RoomUpdate
	if err := decode(r, &upd, false); err != nil {
		return err
	}
	return s.UpdateRoom(id, upd)
}

func removeRoom(r *http.Request, s *drafts.Session) error {
	id, err := pathInt64(r, "roomID")
	if err != nil {
		return err
	}
	return s.RemoveRoom(id)
}

// Gallery, contact fields and features share one shape: add, replace all,
// update by index, remove by index.

func addGalleryItem(r *http.Request, s *drafts.Session) error {
	var item models.GalleryItem
	if err := decode(r, &item, false); err != nil {
		return err
	}
	return s.AddGalleryItem(item)
}

func setGallery(r *http.Request, s *drafts.Session) error {
	var req struct {
		Items []models.GalleryItem `json:"items"`
	}
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetGallery(req.Items)
}

func updateGalleryItem(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	var item models.GalleryItem
	if err := decode(r, &item, false); err != nil {
		return err
	}
	return s.UpdateGalleryItem(i, item)
}

func removeGalleryItem(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	return s.RemoveGalleryItem(i)
}

func addContactField(r *http.Request, s *drafts.Session) error {
	var f models.ContactField
	if err := decode(r, &f, false); err != nil {
		return err
	}
	return s.AddContactField(f)
}

func setContactFields(r *http.Request, s *drafts.Session) error {
	var req struct {
		Items []models.ContactField `json:"items"`
	}
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetContactFields(req.Items)
}

func updateContactField(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	var f models.ContactField
	if err := decode(r, &f, false); err != nil {
		return err
	}
	return s.UpdateContactField(i, f)
}

func removeContactField(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	return s.RemoveContactField(i)
}

func addFeature(r *http.Request, s *drafts.Session) error {
	var f models.Feature
	if err := decode(r, &f, false); err != nil {
		return err
	}
	return s.AddFeature(f)
}

func setFeatures(r *http.Request, s *drafts.Session) error {
	var req struct {
		Items []models.Feature `json:"items"`
	}
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetFeatures(req.Items)
}

func updateFeature(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	var f models.Feature
	if err := decode(r, &f, false); err != nil {
		return err
	}
	return s.UpdateFeature(i, f)
}

func removeFeature(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	return s.RemoveFeature(i)
}

// Amenity categories

func addAmenityCategory(r *http.Request, s *drafts.Session) error {
	var cat models.AmenityCategory
	if err := decode(r, &cat, false); err != nil {
		return err
	}
	return s.AddAmenityCategory(cat)
}

func setAmenityCategories(r *http.Request, s *drafts.Session) error {
	var req struct {
		Items []models.AmenityCategory `json:"items"`
	}
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.SetAmenityCategories(req.Items)
}

func removeAmenityCategory(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	return s.RemoveAmenityCategory(i)
}

func addAmenityToCategory(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	var req labelRequest
	if err := decode(r, &req, false); err != nil {
		return err
	}
	return s.AddAmenityToCategory(i, req.Label)
}

func removeAmenityFromCategory(r *http.Request, s *drafts.Session) error {
	i, err := pathInt(r, "index")
	if err != nil {
		return err
	}
	item, err := pathInt(r, "item")
	if err != nil {
		return err
	}
	return s.RemoveAmenityFromCategory(i, item)
}
