package util

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只看密码 UTF-8 编码的前 72 字节，超出部分在
// 哈希和校验两侧都先截断，保证双方口径一致。
const maxPasswordBytes = 72

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword 使用 bcrypt 生成密码哈希，cost 不合法时退回默认值。
// 每次调用带随机 salt，相同密码也会得到不同哈希。
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 验证明文密码与存储的哈希是否匹配。
// 任何失败（哈希格式损坏、密码不匹配）都只返回 false，不报错，
// 调用方把 false 和"用户不存在"视为同一种登录失败。
func CheckPassword(password, stored string) bool {
	if stored == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(stored), truncatePassword(password))
	return err == nil
}
