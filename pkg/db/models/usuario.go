package models

import "time"

// Usuario is the canonical identity row, keyed by the Firebase auth UID the
// mobile client sends with every request.
type Usuario struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	FirebaseUID string    `gorm:"column:firebase_uid;not null;uniqueIndex"`
	Email       string    `gorm:"column:email;not null"`
	Nombre      string    `gorm:"column:nombre;not null"`
	Apellido    string    `gorm:"column:apellido;not null"`
	Usuario     *string   `gorm:"column:usuario"`
	Edad        *int      `gorm:"column:edad"`
	Telefono    *string   `gorm:"column:telefono"`
	Direccion   *string   `gorm:"column:direccion"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the historical table name.
func (Usuario) TableName() string { return "usuarios" }
