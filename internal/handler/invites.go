package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/utils"
)

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	org := r.Context().Value(OrganizationCtx).(*domain.Organization)

	var req struct {
		Email string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readRequest(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	token, err := utils.GenerateRandomToken(h.config.Invite.TokenLength)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	link := &domain.InviteLink{
		Token:          token,
		OrganizationID: org.ID,
		ExpiresAt:      time.Now().Add(time.Duration(h.config.Invite.Expiration) * time.Second).UTC(),
	}

	if err := h.invites.CreateInviteLink(link); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	url := fmt.Sprintf("%s/%s", h.config.Invite.BaseURL, link.Token)

	// 指定了邮箱时通过消息队列发送邀请邮件
	if req.Email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		defer cancel()

		if err := h.notifier.Send(ctx, domain.Notification{
			Type:   domain.NotificationTypeInvite,
			Target: req.Email,
			Title:  "组织邀请",
			Body:   fmt.Sprintf("您被邀请加入 %s，点击下方链接接受邀请", org.Name),
			Data: map[string]any{
				"organizationID": org.ID,
				"link":           url,
				"expiresAt":      link.ExpiresAt.Format(time.DateTime),
			},
		}); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "创建邀请链接成功", map[string]any{
		"token":     link.Token,
		"url":       url,
		"expiresAt": link.ExpiresAt,
	})
}

// RedeemInvite 使用邀请链接加入组织，加入后的成员需要管理员审核
func (h *Handler) RedeemInvite(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	link, err := h.invites.GetInviteLink(chi.URLParam(r, "token"))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	_, err = h.repository.GetEmployeeByUserID(link.OrganizationID, myInfo.ID)
	switch {
	case err == nil:
		h.domainError(w, r, domain.NewStateConflictError("您已经是该组织的成员", nil))
		return
	case !errors.Is(err, sql.ErrNoRows):
		h.internalServerError(w, r, err)
		return
	}

	employee := &domain.Employee{
		OrganizationID: link.OrganizationID,
		UserID:         myInfo.ID,
		Status:         domain.EmployeeStatusPending,
		SystemRole:     domain.SystemRoleEmployee,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "已申请加入组织，请等待管理员审核", employee)
}
