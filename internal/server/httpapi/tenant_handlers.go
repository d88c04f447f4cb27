package httpapi

import (
	"net/http"

	"github.com/dkrasnovs/tenauth/internal/server/tenants"
)

type tenantResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func toTenantResponse(t *tenants.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, Address: t.Address}
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	tenant, err := s.tenants.Create(r.Context(), req.Name, req.Address)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      tenant.ID,
		"message": "tenant has been created successfully",
	})
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	tenant, err := s.tenants.Update(r.Context(), r.PathValue("id"), req.Name, req.Address)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":      tenant.ID,
		"message": "tenant has been updated successfully",
	})
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	query, page, perPage := listParams(r)

	list, total, err := s.tenants.List(r.Context(), tenants.ListFilter{
		Query:   query,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := make([]tenantResponse, 0, len(list))
	for i := range list {
		data = append(data, toTenantResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentPage": page,
		"perPage":     perPage,
		"total":       total,
		"data":        data,
	})
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := s.tenants.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTenantResponse(tenant))
}

func (s *Server) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tenants.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
