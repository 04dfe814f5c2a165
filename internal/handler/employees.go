package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/tavernshift/backend/internal/domain"
)

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	employees, err := h.repository.GetEmployeesByOrganizationID(org.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	membership := r.Context().Value(MembershipCtx).(*domain.Employee)

	var req struct {
		Status     *string `json:"status" validate:"omitempty,oneof=PENDING APPROVED DENIED"`
		SystemRole *string `json:"systemRole" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Status != nil {
		employee.Status = domain.EmployeeStatus(*req.Status)
	}
	if req.SystemRole != nil {
		// 只有所有者可以任免管理员
		if membership.SystemRole != domain.SystemRoleOwner && domain.SystemRole(*req.SystemRole) != employee.SystemRole {
			h.errorResponse(w, r, http.StatusForbidden, "只有组织所有者可以修改系统角色")
			return
		}
		employee.SystemRole = domain.SystemRole(*req.SystemRole)
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "员工信息已被修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	role, err := h.loadRole(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateRoleAssignment(employee.ID, role.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "分配岗位成功", nil)
}

func (h *Handler) UnassignRole(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	role, err := h.loadRole(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.DeleteRoleAssignment(employee.ID, role.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "取消岗位成功", nil)
}

func (h *Handler) GetEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	org := orgContext(r)

	if !org.IsAdmin && org.EmployeeID != employee.ID {
		h.errorResponse(w, r, http.StatusForbidden, "只能查看自己的空闲时间")
		return
	}

	availability, err := h.scheduler.GetEmployeeAvailability(org, employee.ID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取空闲时间成功", availability)
}

func (h *Handler) UpsertEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req availabilityRequest
	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	availability, err := req.toAvailability()
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.scheduler.UpsertAvailability(orgContext(r), employee.ID, availability); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新空闲时间成功", availability)
}
