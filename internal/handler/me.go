package handler

import (
	"net/http"

	"github.com/tavernshift/backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "获取个人信息成功", myInfo)
}

type availabilityRequest struct {
	DayOfWeek string  `json:"dayOfWeek" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Status    string  `json:"status" validate:"required,oneof=AVAILABLE UNAVAILABLE PREFERRED"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

func (req *availabilityRequest) toAvailability() (*domain.Availability, error) {
	a := &domain.Availability{
		DayOfWeek: domain.Weekday(req.DayOfWeek),
		Status:    domain.AvailabilityStatus(req.Status),
	}

	if req.StartTime != nil {
		start, err := domain.ParseClockTime(*req.StartTime)
		if err != nil {
			return nil, err
		}
		a.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := domain.ParseClockTime(*req.EndTime)
		if err != nil {
			return nil, err
		}
		a.EndTime = &end
	}

	return a, nil
}

func (h *Handler) GetMyGeneralAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	availability, err := h.scheduler.GetGeneralAvailability(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取通用空闲时间成功", availability)
}

func (h *Handler) UpsertMyGeneralAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

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

	if err := h.scheduler.UpsertGeneralAvailability(myInfo.ID, availability); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新通用空闲时间成功", availability)
}
