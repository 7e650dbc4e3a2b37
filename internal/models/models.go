package models

import (
	"time"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username      string         `gorm:"uniqueIndex;not null"       json:"username"`
	Email         string         `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash  string         `gorm:"not null"                   json:"-"`
	Role          string         `gorm:"not null"                   json:"role"`
	PlayerProfile *PlayerProfile `gorm:"foreignKey:UserID"          json:"playerProfile,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type PlayerProfile struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null"      json:"-"`
	Username        string    `gorm:"not null"                  json:"username"`
	Email           string    `gorm:"not null"                  json:"email"`
	FirstName       string    `gorm:"not null"                  json:"firstName"`
	LastName        string    `gorm:"not null"                  json:"lastName"`
	MobileNumber    string    `json:"mobileNumber"`
	Address1        string    `gorm:"not null"                  json:"address1"`
	Address2        *string   `json:"address2,omitempty"`
	City            string    `gorm:"not null"                  json:"city"`
	State           string    `gorm:"not null"                  json:"state"`
	Zip             string    `gorm:"not null"                  json:"zip"`
	BsLiveCode      string    `json:"bsLiveCode"`
	DefaultLocation *int      `json:"defaultLocation,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Tournament struct {
	ID          uint             `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string           `gorm:"not null"                  json:"name"`
	Location    string           `json:"location"`
	StartsAt    time.Time        `gorm:"not null"                  json:"startsAt"`
	CreatedByID uint             `gorm:"index;not null"            json:"createdById"`
	Teams       []TournamentTeam `gorm:"foreignKey:TournamentID"   json:"teams,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type TournamentTeam struct {
	ID           uint                   `gorm:"primaryKey;autoIncrement"                 json:"id"`
	TournamentID uint                   `gorm:"not null;uniqueIndex:idx_tournament_team" json:"tournamentId"`
	Name         string                 `gorm:"not null;uniqueIndex:idx_tournament_team" json:"name"`
	TeamSize     int                    `gorm:"not null"                                 json:"teamSize"`
	CreatedByID  uint                   `gorm:"not null"                                 json:"createdById"`
	Players      []TournamentTeamPlayer `gorm:"foreignKey:TournamentTeamID"              json:"players,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

const PlayerStatusRegistered = "Registered"

type TournamentTeamPlayer struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	TournamentTeamID uint      `gorm:"index;not null"            json:"tournamentTeamId"`
	ProfileID        uint      `gorm:"index;not null"            json:"profileId"`
	Status           string    `gorm:"not null"                  json:"status"`
	CreatedByID      uint      `gorm:"not null"                  json:"createdById"`
	UpdatedByID      uint      `gorm:"not null"                  json:"updatedById"`
	CreatedAt        time.Time `json:"createdAt"`
}
