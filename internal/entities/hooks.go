package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

func (s *Shelf) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (b *Book) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

func (r *Reading) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

func (e *ReadingEntry) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}
