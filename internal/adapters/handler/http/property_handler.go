package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
	"github.com/vncsmyrnk/estate/internal/logging"
)

type PropertyHandler struct {
	service ports.PropertyService
	log     logging.Logger
}

func NewPropertyHandler(service ports.PropertyService, log logging.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log,
	}
}

// createPropertyRequest has no owner field: the owner is always the caller.
type createPropertyRequest struct {
	Title       string        `json:"nom"`
	Description string        `json:"description"`
	Kind        string        `json:"type_de_bien"`
	City        string        `json:"ville"`
	Rooms       []domain.Room `json:"pieces"`
}

type propertyResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"nom"`
	Description string        `json:"description"`
	Kind        string        `json:"type_de_bien"`
	City        string        `json:"ville"`
	OwnerID     int64         `json:"proprietaire"`
	Rooms       []domain.Room `json:"pieces"`
	CreatedAt   time.Time     `json:"created_at"`
}

func newPropertyResponse(p *domain.Property) propertyResponse {
	rooms := p.Rooms
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return propertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Kind:        p.Kind,
		City:        p.City,
		OwnerID:     p.OwnerID,
		Rooms:       rooms,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.Create(r.Context(), r.Header.Get("Authorization"), ports.CreatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		City:        req.City,
		Rooms:       req.Rooms,
	})
	if err != nil {
		writeServiceError(w, r, h.log, "create property", err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id, Message: "property created"})
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	properties, err := h.service.ListByCity(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeServiceError(w, r, h.log, "list properties", err)
		return
	}

	resp := make([]propertyResponse, 0, len(properties))
	for _, p := range properties {
		resp = append(resp, newPropertyResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrPropertyNotFound.Error())
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, "get property", err)
		return
	}

	writeJSON(w, http.StatusOK, newPropertyResponse(p))
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrPropertyNotFound.Error())
		return
	}

	var patch domain.PropertyPatch
	var body map[string]json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		patch.Malformed = err
	} else {
		patch = propertyPatchFromBody(body)
	}

	if err := h.service.Update(r.Context(), r.Header.Get("Authorization"), id, patch); err != nil {
		writeServiceError(w, r, h.log, "update property", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "property updated"})
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrPropertyNotFound.Error())
		return
	}

	if err := h.service.Delete(r.Context(), r.Header.Get("Authorization"), id); err != nil {
		writeServiceError(w, r, h.log, "delete property", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "property deleted"})
}

// propertyPatchFromBody never fails; decoding problems land in Malformed and
// are reported only after existence and ownership are settled.
func propertyPatchFromBody(body map[string]json.RawMessage) domain.PropertyPatch {
	patch := domain.PropertyPatch{Immutable: presentKeys(body, "id", "proprietaire")}

	var err error
	fields := []struct {
		key string
		dst **string
	}{
		{"nom", &patch.Title},
		{"description", &patch.Description},
		{"type_de_bien", &patch.Kind},
		{"ville", &patch.City},
	}
	for _, f := range fields {
		if *f.dst, err = optionalString(body, f.key); err != nil {
			return domain.PropertyPatch{Malformed: err}
		}
	}

	if raw, ok := body["pieces"]; ok {
		var rooms []domain.Room
		if err := json.Unmarshal(raw, &rooms); err != nil {
			return domain.PropertyPatch{Malformed: domain.InvalidField("pieces", "must be an array of objects")}
		}
		if rooms == nil {
			rooms = []domain.Room{}
		}
		patch.Rooms = &rooms
	}
	return patch
}
