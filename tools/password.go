package tools

import "golang.org/x/crypto/bcrypt"

// PasswordEncrypt bcrypt 加密，失败直接 panic（只会在参数非法时发生）
func PasswordEncrypt(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	PanicOnErr(err)
	return string(hash)
}

func PasswordCompare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
