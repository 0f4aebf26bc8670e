package models

import (
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleShipper UserRole = "SHIPPER"
	RoleCarrier UserRole = "CARRIER"
	RoleAdmin   UserRole = "ADMIN"
	RoleBoth    UserRole = "BOTH"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"column:username;unique;not null" json:"username"`
	Email        string   `gorm:"column:email;unique;not null" json:"email"`
	Password     string   `gorm:"-:migration" json:"-"` // Temporary field for password handling
	PasswordHash string   `gorm:"column:password_hash;not null" json:"-"`
	PhoneNumber  string   `gorm:"column:phone_number" json:"phoneNumber"`
	Role         UserRole `gorm:"column:role;not null" json:"role"`
	CompanyName  string   `gorm:"column:company_name" json:"companyName"`
	CompanyPhone string   `gorm:"column:company_phone" json:"companyPhone"`
	MCNumber     string   `gorm:"column:mc_number" json:"mcNumber"`
	DOTNumber    string   `gorm:"column:dot_number" json:"dotNumber"`
	// Comma-separated equipment types for carriers (e.g. "flatbed,reefer")
	EquipmentTypes string `gorm:"column:equipment_types" json:"equipmentTypes"`
	FCMToken       string `gorm:"column:fcm_token" json:"-"`
	IsVerified     bool   `gorm:"column:is_verified;default:false" json:"isVerified"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// CanShip reports whether the user may post shipments.
func (u *User) CanShip() bool {
	return u.Role == RoleShipper || u.Role == RoleBoth || u.Role == RoleAdmin
}

// CanCarry reports whether the user may bid on and haul shipments.
func (u *User) CanCarry() bool {
	return u.Role == RoleCarrier || u.Role == RoleBoth || u.Role == RoleAdmin
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
