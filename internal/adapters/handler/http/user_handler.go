package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vncsmyrnk/estate/internal/adapters/token/jwt"
	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
	"github.com/vncsmyrnk/estate/internal/logging"
)

type UserHandler struct {
	service ports.IdentityService
	log     logging.Logger
}

func NewUserHandler(service ports.IdentityService, log logging.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	BirthDate string `json:"date_de_naissance"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	BirthDate string `json:"date_de_naissance"`
}

type validateResponse struct {
	Valid bool          `json:"valid"`
	User  *userResponse `json:"user,omitempty"`
	Error string        `json:"error,omitempty"`
}

func newUserResponse(id int64, email, lastName, firstName string, birth time.Time) *userResponse {
	return &userResponse{
		ID:        id,
		Email:     email,
		LastName:  lastName,
		FirstName: firstName,
		BirthDate: birth.Format(domain.DateLayout),
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.Register(r.Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		writeServiceError(w, r, h.log, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id, Message: "user registered"})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, caller, ok := h.target(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetSelf(r.Context(), caller.ID, id)
	if err != nil {
		writeServiceError(w, r, h.log, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user.ID, user.Email, user.LastName, user.FirstName, user.BirthDate))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, caller, ok := h.target(w, r)
	if !ok {
		return
	}

	var patch domain.UserPatch
	var body map[string]json.RawMessage
	if err := decodeJSON(w, r, &body); err != nil {
		patch.Malformed = err
	} else {
		patch = userPatchFromBody(body)
	}

	if err := h.service.UpdateSelf(r.Context(), caller.ID, id, patch); err != nil {
		writeServiceError(w, r, h.log, "update user", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "user updated"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, caller, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSelf(r.Context(), caller.ID, id); err != nil {
		writeServiceError(w, r, h.log, "delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}

// Validate is the endpoint other services call to turn a bearer token into a
// verified identity.
func (h *UserHandler) Validate(w http.ResponseWriter, r *http.Request) {
	token, err := jwt.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	caller, err := h.service.ValidateToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, validateResponse{Valid: false, Error: err.Error()})
			return
		}
		writeServiceError(w, r, h.log, "validate token", err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid: true,
		User:  newUserResponse(caller.ID, caller.Email, caller.LastName, caller.FirstName, caller.BirthDate),
	})
}

func (h *UserHandler) target(w http.ResponseWriter, r *http.Request) (int64, *domain.Caller, bool) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
		return 0, nil, false
	}
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrMissingToken.Error())
		return 0, nil, false
	}
	return id, caller, true
}

// userPatchFromBody keeps the mutable profile keys and records attempts to
// set identity-defining ones. Unknown keys are ignored; null means absent.
// Decoding problems land in Malformed so the service reports them after the
// self-only check.
func userPatchFromBody(body map[string]json.RawMessage) domain.UserPatch {
	patch := domain.UserPatch{Immutable: presentKeys(body, "id", "email", "password")}

	var err error
	if patch.LastName, err = optionalString(body, "nom"); err != nil {
		return domain.UserPatch{Malformed: err}
	}
	if patch.FirstName, err = optionalString(body, "prenom"); err != nil {
		return domain.UserPatch{Malformed: err}
	}

	birth, err := optionalString(body, "date_de_naissance")
	if err != nil {
		return domain.UserPatch{Malformed: err}
	}
	if birth != nil {
		t, err := domain.ParseBirthDate("date_de_naissance", *birth)
		if err != nil {
			return domain.UserPatch{Malformed: err}
		}
		patch.BirthDate = &t
	}
	return patch
}

func optionalString(body map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := body[key]
	if !ok {
		return nil, nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, domain.InvalidField(key, "must be a string")
	}
	return s, nil
}

func presentKeys(body map[string]json.RawMessage, keys ...string) []string {
	var present []string
	for _, k := range keys {
		if _, ok := body[k]; ok {
			present = append(present, k)
		}
	}
	return present
}
