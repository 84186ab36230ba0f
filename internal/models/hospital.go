package models

// Hospital groups departments and the doctors working there.
type Hospital struct {
	BaseModel
	Name string `gorm:"size:255;not null" json:"name"`

	Departments []Department `gorm:"foreignKey:HospitalID" json:"-"`
}

// Department belongs to a hospital.
type Department struct {
	BaseModel
	HospitalID string `gorm:"size:36;index;not null" json:"hospital_id"`
	Name       string `gorm:"size:255;not null" json:"name"`

	Hospital Hospital `gorm:"foreignKey:HospitalID" json:"-"`
}

// Doctor is the practice profile attached to a user with the doctor role.
type Doctor struct {
	BaseModel
	UserID         string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	Email          string `gorm:"size:255;index" json:"email"`
	Name           string `gorm:"size:255" json:"name"`
	HospitalID     string `gorm:"size:36;index" json:"hospital_id,omitempty"`
	DepartmentID   string `gorm:"size:36;index" json:"department_id,omitempty"`
	Specialization string `gorm:"size:100;index" json:"specialization,omitempty"`
	LogoKey        string `json:"-"`
	LogoURL        string `json:"logo_url,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
