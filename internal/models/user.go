package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Name         string     `gorm:"not null"`
	Roles        datatypes.JSON `gorm:"type:jsonb"` // ["seeker", "provider", ...]
	Status       UserStatus `gorm:"type:varchar(20);default:'active'"`
	IsBlocked    bool       `gorm:"default:false"`

	// Денормализованный статус последней заявки на апгрейд до provider
	ProviderUpgradeStatus UpgradeStatus `gorm:"type:varchar(20);default:'none'"`

	// Производные поля рейтинга. Источник истины - таблица reviews;
	// пишутся ТОЛЬКО пересчетом в rating service.
	Rating      float64 `gorm:"default:0"`
	ReviewCount int     `gorm:"default:0"`
	IsTopRated  bool    `gorm:"default:false"`

	// Relations
	SeekerProfile   *SeekerProfile   `gorm:"foreignKey:UserID"`
	ProviderProfile *ProviderProfile `gorm:"foreignKey:UserID"`
}

// RoleList возвращает роли пользователя как срез строк
func (u *User) RoleList() []string {
	var roles []string
	if len(u.Roles) > 0 {
		_ = json.Unmarshal(u.Roles, &roles)
	}
	return roles
}

// HasRole проверяет наличие роли у пользователя
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole добавляет роль идемпотентно. Возвращает true, если роль добавлена.
func (u *User) AddRole(role string) bool {
	if u.HasRole(role) {
		return false
	}
	roles := append(u.RoleList(), role)
	data, _ := json.Marshal(roles)
	u.Roles = datatypes.JSON(data)
	return true
}

// RolesJSON сериализует срез ролей для записи в модель
func RolesJSON(roles ...string) datatypes.JSON {
	data, _ := json.Marshal(roles)
	return datatypes.JSON(data)
}
