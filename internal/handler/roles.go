package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/tavernshift/backend/internal/domain"
)

func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	roles, err := h.repository.GetRolesByOrganizationID(org.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取岗位列表成功", roles)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Name string `json:"name" validate:"required,max=50"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	role := &domain.Role{
		OrganizationID: org.ID,
		Name:           req.Name,
	}

	if err := h.repository.CreateRole(role); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建岗位成功", role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.loadRole(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.DeleteRole(role.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除岗位成功", nil)
}

// loadRole 读取路径中的岗位，其他组织的岗位视为不存在
func (h *Handler) loadRole(r *http.Request) (*domain.Role, error) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	roleID, err := h.readIDParam(r, "roleID")
	if err != nil {
		return nil, err
	}

	role, err := h.repository.GetRoleByID(roleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("岗位不存在")
		}
		return nil, err
	}

	if role.OrganizationID != org.ID {
		return nil, domain.NewNotFoundError("岗位不存在")
	}

	return role, nil
}
