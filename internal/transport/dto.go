package transport

import "time"

type SignupRequest struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	MobileNumber string  `json:"mobileNumber"`
	Address1     string  `json:"address1"`
	Address2     *string `json:"address2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Zip          string  `json:"zip"`
	BsLiveCode   string  `json:"bsLiveCode"`
	Location     *int    `json:"location"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

type TokenResponse struct {
	RefreshToken string `json:"refreshToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type CreateTournamentRequest struct {
	Name     string    `json:"name"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"startsAt"`
}

type TeamPlayer struct {
	ProfileID uint `json:"profileId"`
}

type Team struct {
	Name    string       `json:"name"`
	Players []TeamPlayer `json:"players"`
}

type RegisterTeamRequest struct {
	TournamentID uint `json:"tournamentId"`
	Team         Team `json:"team"`
}

type UpdatePlayerStatusRequest struct {
	TournamentID uint   `json:"tournamentId"`
	TeamID       uint   `json:"teamId"`
	PlayerID     uint   `json:"playerId"`
	Status       string `json:"status"`
}

type UpdatePlayerStatusResponse struct {
	TournamentTeamID uint   `json:"tournamentTeamId"`
	ProfileID        uint   `json:"profileId"`
	Status           string `json:"status"`
}
