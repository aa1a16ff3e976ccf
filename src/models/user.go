package models

import "boletera/src/types"

type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	UID      string `gorm:"uniqueIndex;size:64" json:"uid"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Name     string `json:"name,omitempty"`
	LastName string `json:"last_name,omitempty"`
	Role     string `gorm:"default:'asistente'" json:"role,omitempty"`
	Active   bool   `gorm:"default:true" json:"active"`

	types.Timestamps
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}
