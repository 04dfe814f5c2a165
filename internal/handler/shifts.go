package handler

import (
	"net/http"

	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/scheduler"
)

type shiftRequest struct {
	ScheduleDayID int64   `json:"scheduleDayID" validate:"required"`
	RoleID        int64   `json:"roleID" validate:"required"`
	StartTime     string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime       *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	EmployeeID    *int64  `json:"employeeID"`
	IsOnCall      bool    `json:"isOnCall"`
}

func (req *shiftRequest) toInput() scheduler.ShiftInput {
	return scheduler.ShiftInput{
		ScheduleDayID: req.ScheduleDayID,
		RoleID:        req.RoleID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		EmployeeID:    req.EmployeeID,
		IsOnCall:      req.IsOnCall,
	}
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	var req shiftRequest
	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 日期必须属于路径中的班表
	schedule, err := h.scheduler.GetSchedule(orgContext(r), scheduleID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	if schedule.DayByID(req.ScheduleDayID) == nil {
		h.domainError(w, r, domain.NewNotFoundError("班表中的日期不存在"))
		return
	}

	shift, err := h.scheduler.CreateShift(orgContext(r), req.toInput())
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", shift)
}

// BulkReplaceShifts 在一个事务中删除并创建班次，任意一项失败时不做任何修改
func (h *Handler) BulkReplaceShifts(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		Delete []int64         `json:"delete"`
		Create []*shiftRequest `json:"create" validate:"dive"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	creates := make([]scheduler.ShiftInput, 0, len(req.Create))
	for _, shift := range req.Create {
		creates = append(creates, shift.toInput())
	}

	created, err := h.scheduler.BulkReplaceShifts(orgContext(r), scheduleID, req.Delete, creates)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "批量更新班次成功", created)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := h.readIDParam(r, "shiftID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		RoleID        *int64  `json:"roleID"`
		StartTime     *string `json:"startTime" validate:"omitempty,datetime=15:04"`
		EndTime       *string `json:"endTime" validate:"omitempty,datetime=15:04"`
		ClearEndTime  bool    `json:"clearEndTime"`
		EmployeeID    *int64  `json:"employeeID"`
		ClearEmployee bool    `json:"clearEmployee"`
		IsOnCall      *bool   `json:"isOnCall"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.scheduler.UpdateShift(orgContext(r), shiftID, scheduler.ShiftPatch{
		RoleID:        req.RoleID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ClearEndTime:  req.ClearEndTime,
		EmployeeID:    req.EmployeeID,
		ClearEmployee: req.ClearEmployee,
		IsOnCall:      req.IsOnCall,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := h.readIDParam(r, "shiftID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.scheduler.DeleteShift(orgContext(r), shiftID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

func (h *Handler) GetShiftCandidates(w http.ResponseWriter, r *http.Request) {
	shiftID, err := h.readIDParam(r, "shiftID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	candidates, err := h.scheduler.GetCandidates(orgContext(r), shiftID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取候选员工成功", candidates)
}
