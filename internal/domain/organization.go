package domain

import (
	"slices"
	"time"
)

type EmployeeStatus string

const (
	EmployeeStatusPending  EmployeeStatus = "PENDING"
	EmployeeStatusApproved EmployeeStatus = "APPROVED"
	EmployeeStatusDenied   EmployeeStatus = "DENIED"
)

type SystemRole string

const (
	SystemRoleOwner    SystemRole = "OWNER"
	SystemRoleAdmin    SystemRole = "ADMIN"
	SystemRoleEmployee SystemRole = "EMPLOYEE"
)

type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID int64     `json:"ownerUserID"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Employee struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organizationID"`
	UserID         int64          `json:"userID"`
	Status         EmployeeStatus `json:"status"`
	SystemRole     SystemRole     `json:"systemRole"`
	RoleIDs        []int64        `json:"roleIDs"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`

	// 以下字段来自 users 表
	FullName             string `json:"fullName"`
	Email                string `json:"email"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

func (e *Employee) IsAdmin() bool {
	return e.SystemRole == SystemRoleOwner || e.SystemRole == SystemRoleAdmin
}

func (e *Employee) IsApproved() bool {
	return e.Status == EmployeeStatusApproved
}

func (e *Employee) HasRole(roleID int64) bool {
	return slices.Contains(e.RoleIDs, roleID)
}

// Role 是组织内的岗位，例如调酒师、服务员
type Role struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationID"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
}

type InviteLink struct {
	Token          string    `json:"token"`
	OrganizationID int64     `json:"organizationID"`
	ExpiresAt      time.Time `json:"expiresAt"`
}
