package httpapi

import (
	"net/http"
	"strings"

	"github.com/dkrasnovs/tenauth/internal/server/auth"
	"github.com/dkrasnovs/tenauth/internal/server/users"
)

// userResponse is the serialized user shape. The password hash never leaves
// the service.
type userResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	TenantID  *string `json:"tenantId,omitempty"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		TenantID:  u.TenantID,
	}
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, err := s.users.Create(r.Context(), users.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      auth.Role(req.Role),
		TenantID:  req.TenantID,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      user.ID,
		"message": "user has been created successfully",
	})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, err := s.users.Update(r.Context(), r.PathValue("id"), users.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      auth.Role(req.Role),
		TenantID:  req.TenantID,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":      user.ID,
		"message": "user has been updated successfully",
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	query, page, perPage := listParams(r)
	filter := users.ListFilter{
		Query:   query,
		Role:    r.URL.Query().Get("role"),
		Page:    page,
		PerPage: perPage,
	}

	list, total, err := s.users.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := make([]userResponse, 0, len(list))
	for i := range list {
		data = append(data, toUserResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentPage": page,
		"perPage":     perPage,
		"total":       total,
		"data":        data,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// validate checks the admin create-user payload; it shares the registration
// rules and additionally requires a known role.
func (req *createUserRequest) validate() map[string]string {
	fields := req.registerRequest.validate()
	if !auth.Role(req.Role).Valid() {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["role"] = "role must be one of admin, manager, customer"
	}
	return fields
}

// validate checks the admin update-user payload: the profile rules minus the
// password, which updates never touch.
func (req *updateUserRequest) validate() map[string]string {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	fields := map[string]string{}
	if req.FirstName == "" {
		fields["firstName"] = "first name is required"
	}
	if req.LastName == "" {
		fields["lastName"] = "last name is required"
	}
	if !validEmail(req.Email) {
		fields["email"] = "invalid email format"
	}
	if !auth.Role(req.Role).Valid() {
		fields["role"] = "role must be one of admin, manager, customer"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
