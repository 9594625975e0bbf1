package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleSeller UserRole = "seller"
	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	Id        uuid.UUID
	Email     string
	Name      string
	Role      UserRole
	CreatedAt time.Time
}
