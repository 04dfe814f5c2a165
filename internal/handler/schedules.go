package handler

import (
	"net/http"

	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/scheduler"
	"github.com/tavernshift/backend/internal/utils"
)

type scheduleRequest struct {
	Name                 string   `json:"name" validate:"max=100"`
	WeekStartDate        string   `json:"weekStartDate" validate:"required"`
	AvailabilityDeadline string   `json:"availabilityDeadline" validate:"required"`
	Weekdays             []string `json:"weekdays"`
}

func (req *scheduleRequest) toInput() (scheduler.CreateScheduleInput, error) {
	var input scheduler.CreateScheduleInput
	var err error

	input.Name = req.Name
	if input.WeekStartDate, err = parseDate("weekStartDate", req.WeekStartDate); err != nil {
		return input, err
	}
	if input.AvailabilityDeadline, err = parseDate("availabilityDeadline", req.AvailabilityDeadline); err != nil {
		return input, err
	}
	if len(req.Weekdays) > 0 {
		if input.Weekdays, err = utils.ParseWeekdays(req.Weekdays); err != nil {
			return input, err
		}
	}

	return input, nil
}

func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.scheduler.ListSchedules(orgContext(r))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表列表成功", schedules)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	schedule, err := h.scheduler.CreateSchedule(orgContext(r), input)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班表成功", schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	schedule, err := h.scheduler.GetSchedule(orgContext(r), scheduleID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班表成功", schedule)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		Name                 *string `json:"name" validate:"omitempty,max=100"`
		WeekStartDate        *string `json:"weekStartDate"`
		AvailabilityDeadline *string `json:"availabilityDeadline"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patch := scheduler.SchedulePatch{Name: req.Name}
	if req.WeekStartDate != nil {
		t, err := parseDate("weekStartDate", *req.WeekStartDate)
		if err != nil {
			h.domainError(w, r, err)
			return
		}
		patch.WeekStartDate = &t
	}
	if req.AvailabilityDeadline != nil {
		t, err := parseDate("availabilityDeadline", *req.AvailabilityDeadline)
		if err != nil {
			h.domainError(w, r, err)
			return
		}
		patch.AvailabilityDeadline = &t
	}

	schedule, err := h.scheduler.UpdateSchedule(orgContext(r), scheduleID, patch)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班表成功", schedule)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.scheduler.DeleteSchedule(orgContext(r), scheduleID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班表成功", nil)
}

type weekdaysRequest struct {
	Weekdays []string `json:"weekdays" validate:"required,min=1"`
}

func (h *Handler) readWeekdays(r *http.Request) ([]domain.Weekday, error) {
	var req weekdaysRequest
	if err := h.readRequest(r, &req); err != nil {
		return nil, err
	}
	return utils.ParseWeekdays(req.Weekdays)
}

func (h *Handler) AddScheduleDays(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	weekdays, err := h.readWeekdays(r)
	if err != nil {
		h.requestError(w, r, err)
		return
	}

	days, err := h.scheduler.AddDays(orgContext(r), scheduleID, weekdays)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加日期成功", days)
}

func (h *Handler) RemoveScheduleDays(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	weekdays, err := h.readWeekdays(r)
	if err != nil {
		h.requestError(w, r, err)
		return
	}

	if err := h.scheduler.RemoveDays(orgContext(r), scheduleID, weekdays); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除日期成功", nil)
}

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	schedule, err := h.scheduler.Publish(orgContext(r), scheduleID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "发布班表成功", schedule)
}

func (h *Handler) SaveScheduleAsTemplate(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	var req struct {
		TemplateName string `json:"templateName" validate:"required,max=100"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.scheduler.SaveAsTemplate(orgContext(r), scheduleID, req.TemplateName)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存为模板成功", schedule)
}

// CreateDraftFromTemplate 以路径中的模板为基础创建新一周的草稿
func (h *Handler) CreateDraftFromTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := h.readIDParam(r, "scheduleID")
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	var req scheduleRequest
	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	draft, err := h.scheduler.CreateDraftFromTemplate(orgContext(r), templateID, input)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "从模板创建草稿成功", draft)
}
