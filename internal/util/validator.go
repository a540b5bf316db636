package util

import (
	"fmt"
	"regexp"
	"time"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername 用户名规则：3-20 位，仅字母、数字、下划线
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-20 letters, digits or underscores")
	}
	return nil
}

// ValidateEmail 邮箱格式粗校验
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if len(email) > 128 || !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword 密码长度 8-72（bcrypt 只看前 72 字节）
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password too short, min 8 characters")
	}
	if len(password) > 72 {
		return fmt.Errorf("password too long, max 72 characters")
	}
	return nil
}

// ValidateWeight 体重（kg），必须为正且不超过上限
func ValidateWeight(weight float64) error {
	if weight <= 0 || weight >= 1000 {
		return fmt.Errorf("weight must be in (0, 1000), got %f", weight)
	}
	return nil
}

// ValidateHeight 身高（cm）
func ValidateHeight(height float64) error {
	if height <= 0 || height >= 300 {
		return fmt.Errorf("height must be in (0, 300), got %f", height)
	}
	return nil
}

// ValidateAge 年龄
func ValidateAge(age int) error {
	if age <= 0 || age >= 150 {
		return fmt.Errorf("age must be in (0, 150), got %d", age)
	}
	return nil
}

// ParseDate 验证并解析日期（必须为 YYYY-MM-DD）
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateName 训练名称/部位：不能为空且长度合理
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("name too long, max 64 characters")
	}
	return nil
}
