package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// User is the stored profile of a patient or doctor, together with the
// credentials used to sign in.
type User struct {
	BaseModel
	Name                  string     `gorm:"size:255;not null" json:"name"`
	Email                 string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password              string     `gorm:"size:255;not null" json:"-"`
	Phone                 string     `gorm:"size:32" json:"phone"`
	Role                  Role       `gorm:"size:20;index;not null" json:"role"`
	AvatarURL             string     `json:"avatar_url,omitempty"`
	Bio                   string     `gorm:"type:text" json:"bio,omitempty"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	Gender                string     `gorm:"size:32" json:"gender,omitempty"`
	BloodGroup            string     `gorm:"size:8" json:"blood_group,omitempty"`
	Address               string     `json:"address,omitempty"`
	City                  string     `gorm:"size:100" json:"city,omitempty"`
	State                 string     `gorm:"size:100" json:"state,omitempty"`
	ZipCode               string     `gorm:"size:20" json:"zip_code,omitempty"`
	Country               string     `gorm:"size:100" json:"country,omitempty"`
	EmergencyContact      string     `json:"emergency_contact,omitempty"`
	EmergencyContactPhone string     `gorm:"size:32" json:"emergency_contact_phone,omitempty"`
	MedicalHistory        string     `gorm:"type:text" json:"medical_history,omitempty"`
	Allergies             string     `gorm:"type:text" json:"allergies,omitempty"`
	CurrentMedications    string     `gorm:"type:text" json:"current_medications,omitempty"`
	InsuranceProvider     string     `json:"insurance_provider,omitempty"`
	InsurancePolicyNumber string     `gorm:"size:100" json:"insurance_policy_number,omitempty"`
	IsActive              bool       `gorm:"default:true" json:"is_active"`
	IsVerified            bool       `gorm:"default:false" json:"is_verified"`
}

// PublicProfile is the part of a user visible to any signed-in user.
type PublicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Public returns the user's public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ProfileUpdate carries the optional fields a user may change on their own
// profile. Nil fields are left untouched.
type ProfileUpdate struct {
	Name                  *string    `json:"name" binding:"omitempty,min=2"`
	Phone                 *string    `json:"phone" binding:"omitempty,min=10"`
	AvatarURL             *string    `json:"avatar_url"`
	Bio                   *string    `json:"bio"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	Gender                *string    `json:"gender"`
	BloodGroup            *string    `json:"blood_group"`
	Address               *string    `json:"address"`
	City                  *string    `json:"city"`
	State                 *string    `json:"state"`
	ZipCode               *string    `json:"zip_code"`
	Country               *string    `json:"country"`
	EmergencyContact      *string    `json:"emergency_contact"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone"`
	MedicalHistory        *string    `json:"medical_history"`
	Allergies             *string    `json:"allergies"`
	CurrentMedications    *string    `json:"current_medications"`
	InsuranceProvider     *string    `json:"insurance_provider"`
	InsurancePolicyNumber *string    `json:"insurance_policy_number"`
}

// Apply copies every non-nil field onto u.
func (p ProfileUpdate) Apply(u *User) {
	setString(&u.Name, p.Name)
	setString(&u.Phone, p.Phone)
	setString(&u.AvatarURL, p.AvatarURL)
	setString(&u.Bio, p.Bio)
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		u.DateOfBirth = &dob
	}
	setString(&u.Gender, p.Gender)
	setString(&u.BloodGroup, p.BloodGroup)
	setString(&u.Address, p.Address)
	setString(&u.City, p.City)
	setString(&u.State, p.State)
	setString(&u.ZipCode, p.ZipCode)
	setString(&u.Country, p.Country)
	setString(&u.EmergencyContact, p.EmergencyContact)
	setString(&u.EmergencyContactPhone, p.EmergencyContactPhone)
	setString(&u.MedicalHistory, p.MedicalHistory)
	setString(&u.Allergies, p.Allergies)
	setString(&u.CurrentMedications, p.CurrentMedications)
	setString(&u.InsuranceProvider, p.InsuranceProvider)
	setString(&u.InsurancePolicyNumber, p.InsurancePolicyNumber)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
