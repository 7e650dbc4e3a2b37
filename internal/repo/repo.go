package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrDuplicateTeam    = errors.New("team already registered for this tournament")
	ErrInvalidReference = errors.New("invalid foreign key or reference")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
