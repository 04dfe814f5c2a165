package handler

import (
	"net/http"

	"github.com/tavernshift/backend/internal/domain"
)

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name string `json:"name" validate:"required,max=100"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	org := &domain.Organization{
		Name:        req.Name,
		OwnerUserID: myInfo.ID,
	}
	owner := &domain.Employee{}

	if err := h.repository.CreateOrganization(org, owner); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建组织成功", org)
}

func (h *Handler) GetMyOrganizations(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	orgs, err := h.repository.GetOrganizationsByUserID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取组织列表成功", orgs)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)
	h.successResponse(w, r, "获取组织信息成功", org)
}
