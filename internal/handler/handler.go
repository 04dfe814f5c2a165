package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/tavernshift/backend/internal/config"
	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/repository"
	"github.com/tavernshift/backend/internal/scheduler"
)

// Notifier 用于直接投递单条通知，例如邀请邮件
type Notifier interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// InviteStore 保存有时效的邀请链接，链接不存在或已过期时返回 NotFound
type InviteStore interface {
	CreateInviteLink(link *domain.InviteLink) error
	GetInviteLink(token string) (*domain.InviteLink, error)
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	scheduler  *scheduler.Scheduler
	translator ut.Translator
	notifier   Notifier
	invites    InviteStore

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, sched *scheduler.Scheduler, notifier Notifier) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		scheduler:  sched,
		translator: trans,
		notifier:   notifier,
		invites:    repo,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Get("/general-availability", h.GetMyGeneralAvailability)
			r.Put("/general-availability", h.UpsertMyGeneralAvailability)
		})

		r.Post("/invites/{token}/redeem", h.RedeemInvite)

		r.Route("/organizations", func(r chi.Router) {
			r.Post("/", h.CreateOrganization)
			r.Get("/", h.GetMyOrganizations)

			r.Route("/{organizationID}", func(r chi.Router) {
				// 只有已通过审核的成员才能访问组织内的资源
				r.Use(h.organization)
				r.Get("/", h.GetOrganization)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.GetEmployees)
					r.Route("/{employeeID}", func(r chi.Router) {
						r.Use(h.employee)
						r.With(h.requireAdmin).With(h.preventOperateOwner).Patch("/", h.UpdateEmployee)
						r.With(h.requireAdmin).With(h.preventOperateOwner).Delete("/", h.DeleteEmployee)
						r.With(h.requireAdmin).Put("/roles/{roleID}", h.AssignRole)
						r.With(h.requireAdmin).Delete("/roles/{roleID}", h.UnassignRole)
						r.Get("/availability", h.GetEmployeeAvailability)
						r.Put("/availability", h.UpsertEmployeeAvailability)
					})
				})

				r.Route("/roles", func(r chi.Router) {
					r.Get("/", h.GetRoles)
					r.With(h.requireAdmin).Post("/", h.CreateRole)
					r.With(h.requireAdmin).Delete("/{roleID}", h.DeleteRole)
				})

				r.With(h.requireAdmin).Post("/invites", h.CreateInvite)

				r.Route("/schedules", func(r chi.Router) {
					r.Get("/", h.GetSchedules)
					r.With(h.requireAdmin).Post("/", h.CreateSchedule)
					r.Route("/{scheduleID}", func(r chi.Router) {
						r.Get("/", h.GetSchedule)
						r.Group(func(r chi.Router) {
							r.Use(h.requireAdmin)
							r.Patch("/", h.UpdateSchedule)
							r.Delete("/", h.DeleteSchedule)
							r.Post("/days", h.AddScheduleDays)
							r.Delete("/days", h.RemoveScheduleDays)
							r.Post("/shifts", h.CreateShift)
							r.Put("/shifts", h.BulkReplaceShifts)
							r.Post("/publish", h.PublishSchedule)
							r.Post("/template", h.SaveScheduleAsTemplate)
							r.Post("/drafts", h.CreateDraftFromTemplate)
						})
					})
				})

				r.Route("/shifts/{shiftID}", func(r chi.Router) {
					r.Use(h.requireAdmin)
					r.Patch("/", h.UpdateShift)
					r.Delete("/", h.DeleteShift)
					r.Get("/candidates", h.GetShiftCandidates)
				})
			})
		})
	})
}
