package utils

import (
	"crypto/rand"
	"encoding/base64"
	mrand "math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/tavernshift/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[mrand.Intn(len(commonSurnames))]
	nameLength := mrand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[mrand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := mrand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := mrand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[mrand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:             username,
		PasswordHash:         string(passwordHash),
		FullName:             fullName,
		Email:                username + "@" + emailDomainName,
		NotificationsEnabled: mrand.Intn(4) != 0,
	}

	return user, nil
}

// GenerateRandomToken 生成 URL 安全的随机令牌，用于邀请链接
func GenerateRandomToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length], nil
}

// 酒吧常见的几个开始时间，单位分钟
var shiftStarts = []domain.ClockTime{10 * 60, 12 * 60, 16 * 60, 17 * 60, 18 * 60, 20 * 60}

// GenerateRandomAvailability 随机生成某一天的空闲时间
func GenerateRandomAvailability(day domain.Weekday) domain.Availability {
	a := domain.Availability{DayOfWeek: day}

	switch mrand.Intn(3) {
	case 0:
		a.Status = domain.AvailabilityUnavailable
		return a
	case 1:
		a.Status = domain.AvailabilityAvailable
	default:
		a.Status = domain.AvailabilityPreferred
	}

	start := shiftStarts[mrand.Intn(len(shiftStarts))]
	a.StartTime = &start

	// 一半的窗口持续到打烊
	if mrand.Intn(2) == 0 {
		end := start + domain.ClockTime(4*60+mrand.Intn(3)*60)
		if end > 23*60+59 {
			end = 23*60 + 59
		}
		a.EndTime = &end
	}

	return a
}

// GenerateRandomShiftTime 随机生成班次的开始与结束时间，结束时间可能为空
func GenerateRandomShiftTime() (string, *string) {
	start := shiftStarts[mrand.Intn(len(shiftStarts))]
	if mrand.Intn(3) == 0 {
		return start.String(), nil
	}

	end := start + domain.ClockTime(3*60+mrand.Intn(4)*60)
	if end > 23*60+59 {
		end = 23*60 + 59
	}
	endString := end.String()
	return start.String(), &endString
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomWeekdays() []domain.Weekday {
	days := append([]domain.Weekday{}, domain.Weekdays...)

	for i := len(days) - 1; i > 0; i-- {
		j := mrand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := mrand.Intn(len(days)) + 1
	return days[:n]
}
