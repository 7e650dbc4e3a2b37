package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/dartz_league/internal/models"
)

func (r *GormRepo) CreateTournament(ctx context.Context, t *models.Tournament) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	return nil
}

func (r *GormRepo) GetTournament(ctx context.Context, id uint) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.DB.WithContext(ctx).Preload("Teams.Players").First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// RegisterTeam creates the team and its players in one transaction and
// returns the tournament with all registered teams.
func (r *GormRepo) RegisterTeam(ctx context.Context, team *models.TournamentTeam) (*models.Tournament, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Tournament{}).Where("id = ?", team.TournamentID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var dup int64
		if err := tx.Model(&models.TournamentTeam{}).
			Where("tournament_id = ? AND name = ?", team.TournamentID, team.Name).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateTeam
		}

		profileIDs := make([]uint, 0, len(team.Players))
		for _, p := range team.Players {
			profileIDs = append(profileIDs, p.ProfileID)
		}
		var found int64
		if err := tx.Model(&models.PlayerProfile{}).Where("id IN ?", profileIDs).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(profileIDs) {
			return ErrInvalidReference
		}

		if err := tx.Create(team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTeam
			}
			return fmt.Errorf("create team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetTournament(ctx, team.TournamentID)
}

// UpdatePlayerStatus sets the status of one player on a team of the tournament.
func (r *GormRepo) UpdatePlayerStatus(ctx context.Context, tournamentID, teamID, profileID, updatedBy uint, status string) (*models.TournamentTeamPlayer, error) {
	var player models.TournamentTeamPlayer
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Joins("JOIN tournament_teams ON tournament_teams.id = tournament_team_players.tournament_team_id").
			Where("tournament_teams.tournament_id = ? AND tournament_team_players.tournament_team_id = ? AND tournament_team_players.profile_id = ?",
				tournamentID, teamID, profileID).
			First(&player).Error; err != nil {
			return notFound(err)
		}
		player.Status = status
		player.UpdatedByID = updatedBy
		return tx.Model(&player).Updates(map[string]any{"status": status, "updated_by_id": updatedBy}).Error
	})
	if err != nil {
		return nil, err
	}
	return &player, nil
}
