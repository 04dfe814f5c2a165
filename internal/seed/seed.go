package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/repository"
	"github.com/tavernshift/backend/internal/scheduler"
	"github.com/tavernshift/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var DemoRoles = []string{"调酒师", "服务员", "厨师"}

// ParseAvailabilityCell 解析花名册中某一天的空闲时间。
// 空白表示未填写，"休息" 表示不可用，"18:00-23:00" 或 "18:00-"（直到打烊）表示可用，前缀 * 表示偏好
func ParseAvailabilityCell(day domain.Weekday, cell string) (*domain.Availability, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	a := &domain.Availability{DayOfWeek: day}
	if cell == "休息" {
		a.Status = domain.AvailabilityUnavailable
		return a, nil
	}

	a.Status = domain.AvailabilityAvailable
	if strings.HasPrefix(cell, "*") {
		a.Status = domain.AvailabilityPreferred
		cell = cell[1:]
	}

	startString, endString, ok := strings.Cut(cell, "-")
	if !ok {
		return nil, fmt.Errorf("无法解析的时间段 %q", cell)
	}

	start, err := domain.ParseClockTime(startString)
	if err != nil {
		return nil, err
	}
	a.StartTime = &start

	if endString != "" {
		end, err := domain.ParseClockTime(endString)
		if err != nil {
			return nil, err
		}
		a.EndTime = &end
	}

	if err := utils.ValidateAvailability(a); err != nil {
		return nil, err
	}

	return a, nil
}

// SeedRoster 从 CSV 花名册导入员工、岗位和空闲时间。
// 表头中能解析为星期的列是空闲时间，其余为信息列
func SeedRoster(r *repository.Repository, s *scheduler.Scheduler, organizationID int64, path string, password string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	dayColumns := make(map[int]domain.Weekday)
	for i, header := range headers {
		if day, err := domain.ParseWeekday(header); err == nil {
			dayColumns[i] = day
		}
	}
	if len(dayColumns) == 0 {
		slog.Error("没有找到星期列")
		return
	}

	org, err := r.GetOrganizationByID(organizationID)
	if err != nil {
		slog.Error("获取组织失败", "organizationID", organizationID, "error", err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("无法生成密码哈希", "error", err)
		return
	}

	admin := scheduler.OrganizationContext{OrganizationID: org.ID, IsAdmin: true}

	cnt := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = value
		}

		username := record["用户名"]
		if username == "" {
			slog.Error("没有找到用户名", "record", record)
			continue
		}

		user, err := r.GetUserByUsername(username)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				user = &domain.User{
					Username:             username,
					PasswordHash:         string(passwordHash),
					FullName:             record["姓名"],
					Email:                record["邮箱"],
					NotificationsEnabled: true,
				}
				if err := r.CreateUser(user); err != nil {
					slog.Error("插入用户失败", "username", username, "error", err)
					continue
				}
			default:
				slog.Error("获取用户失败", "username", username, "error", err)
				continue
			}
		}

		employee, err := ensureEmployee(r, org.ID, user.ID)
		if err != nil {
			slog.Error("插入员工失败", "username", username, "error", err)
			continue
		}

		roleNames := strings.Split(record["岗位"], "、")
		roles, err := ensureRoles(r, org.ID, roleNames)
		if err != nil {
			slog.Error("插入岗位失败", "error", err)
			continue
		}
		for _, name := range roleNames {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if err := r.CreateRoleAssignment(employee.ID, roles[name]); err != nil {
				slog.Error("分配岗位失败", "username", username, "role", name, "error", err)
			}
		}

		for i, day := range dayColumns {
			if i >= len(row) {
				continue
			}
			a, err := ParseAvailabilityCell(day, row[i])
			if err != nil {
				slog.Error("解析空闲时间失败", "username", username, "day", day, "error", err)
				continue
			}
			if a == nil {
				continue
			}
			if err := s.UpsertAvailability(admin, employee.ID, a); err != nil {
				slog.Error("插入空闲时间失败", "username", username, "day", day, "error", err)
			}
		}

		cnt++
	}

	slog.Info("导入花名册完成", slog.Int("count", cnt))
}

// CreateRandomUser 插入一个随机用户，用户名重复时重新生成
func CreateRandomUser(r *repository.Repository, password string, emailDomainName string) (*domain.User, error) {
	for i := 0; i < 5; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomainName)
		if err != nil {
			return nil, err
		}

		isExists, err := r.CheckUsernameIfExists(user.Username)
		if err != nil {
			return nil, err
		}
		if isExists {
			continue
		}

		if err := r.CreateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	return nil, errors.New("无法生成不重复的用户名")
}

// SeedDemo 创建一个示例酒吧：所有者、岗位、n 个随机员工及其空闲时间，以及下周的一份草稿班表
func SeedDemo(r *repository.Repository, s *scheduler.Scheduler, n int, password string, emailDomainName string) error {
	owner, err := CreateRandomUser(r, password, emailDomainName)
	if err != nil {
		return err
	}

	org := &domain.Organization{
		Name:        fmt.Sprintf("%s的酒吧", owner.FullName),
		OwnerUserID: owner.ID,
	}
	ownerEmployee := &domain.Employee{}
	if err := r.CreateOrganization(org, ownerEmployee); err != nil {
		return err
	}
	slog.Info("已创建示例组织", "organizationID", org.ID, "owner", owner.Username)

	roles, err := ensureRoles(r, org.ID, DemoRoles)
	if err != nil {
		return err
	}

	admin := scheduler.OrganizationContext{
		OrganizationID: org.ID,
		UserID:         owner.ID,
		EmployeeID:     ownerEmployee.ID,
		IsAdmin:        true,
	}

	cnt := 0
	for i := 0; i < n; i++ {
		user, err := CreateRandomUser(r, password, emailDomainName)
		if err != nil {
			slog.Error("无法插入用户", slog.String("error", err.Error()))
			continue
		}

		employee, err := ensureEmployee(r, org.ID, user.ID)
		if err != nil {
			slog.Error("无法插入员工", slog.String("error", err.Error()))
			continue
		}

		// 每个员工随机拥有一到两个岗位
		for _, j := range rand.Perm(len(DemoRoles))[:rand.Intn(2)+1] {
			if err := r.CreateRoleAssignment(employee.ID, roles[DemoRoles[j]]); err != nil {
				slog.Error("无法分配岗位", slog.String("error", err.Error()))
			}
		}

		for _, day := range utils.GenerateRandomWeekdays() {
			a := utils.GenerateRandomAvailability(day)
			if err := s.UpsertAvailability(admin, employee.ID, &a); err != nil {
				slog.Error("无法插入空闲时间", slog.String("error", err.Error()))
			}
		}

		cnt++
	}
	slog.Info("插入员工成功", slog.Int("count", cnt))

	weekStart := NextMonday(time.Now())
	schedule, err := s.CreateSchedule(admin, scheduler.CreateScheduleInput{
		Name:                 fmt.Sprintf("%s 当周班表", weekStart.Format(time.DateOnly)),
		WeekStartDate:        weekStart,
		AvailabilityDeadline: weekStart.AddDate(0, 0, -2),
		Weekdays:             utils.GenerateRandomWeekdays(),
	})
	if err != nil {
		return err
	}

	creates := make([]scheduler.ShiftInput, 0)
	for _, day := range schedule.Days {
		for _, name := range DemoRoles {
			start, end := utils.GenerateRandomShiftTime()
			creates = append(creates, scheduler.ShiftInput{
				ScheduleDayID: day.ID,
				RoleID:        roles[name],
				StartTime:     start,
				EndTime:       end,
				IsOnCall:      rand.Intn(5) == 0,
			})
		}
	}

	if _, err := s.BulkReplaceShifts(admin, schedule.ID, nil, creates); err != nil {
		return err
	}

	slog.Info("已创建草稿班表", "scheduleID", schedule.ID, "days", len(schedule.Days), "shifts", len(creates))
	return nil
}

// NextMonday 返回 now 之后（不含当天）的第一个周一
func NextMonday(now time.Time) time.Time {
	days := (8 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return domain.Date(now).AddDate(0, 0, days)
}

// ensureRoles 确保组织中存在给定名称的岗位，返回组织中所有岗位名称到 ID 的映射
func ensureRoles(r *repository.Repository, organizationID int64, names []string) (map[string]int64, error) {
	existing, err := r.GetRolesByOrganizationID(organizationID)
	if err != nil {
		return nil, err
	}

	roles := make(map[string]int64, len(existing))
	for _, role := range existing {
		roles[role.Name] = role.ID
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := roles[name]; ok {
			continue
		}
		role := &domain.Role{OrganizationID: organizationID, Name: name}
		if err := r.CreateRole(role); err != nil {
			return nil, err
		}
		roles[name] = role.ID
	}

	return roles, nil
}

// ensureEmployee 返回组织中该用户对应的员工，不存在时直接以已审核状态创建
func ensureEmployee(r *repository.Repository, organizationID, userID int64) (*domain.Employee, error) {
	employee, err := r.GetEmployeeByUserID(organizationID, userID)
	if err == nil {
		return employee, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	employee = &domain.Employee{
		OrganizationID: organizationID,
		UserID:         userID,
		Status:         domain.EmployeeStatusApproved,
		SystemRole:     domain.SystemRoleEmployee,
	}
	if err := r.CreateEmployee(employee); err != nil {
		return nil, err
	}

	return employee, nil
}
