package user

import (
	"errors"
	"log/slog"

	"attendance-system/config"
	"attendance-system/internal/global/database"
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/model"
	"attendance-system/tools"

	"gorm.io/gorm"
)

var log *slog.Logger

type ModuleUser struct{}

func (u *ModuleUser) GetName() string {
	return "User"
}

func (u *ModuleUser) Init() {
	log = logger.New("User")
	tools.PanicOnErr(seedAdmin(database.DB, config.Get().Admin))
}

// seedAdmin 没有任何管理员时按配置创建一个
func seedAdmin(db *gorm.DB, admin config.Admin) error {
	if admin.Password == "" {
		return nil
	}
	var existing model.User
	err := db.Where("role_id >= ?", jwt.RoleAdmin).First(&existing).Error
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	user := model.User{Username: admin.Username, Password: tools.PasswordEncrypt(admin.Password), RoleID: jwt.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Info("已创建初始管理员", "username", admin.Username)
	return nil
}
