package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/dartz_league/internal/identity"
	"github.com/Skotchmaster/dartz_league/internal/models"
	"github.com/Skotchmaster/dartz_league/internal/repo"
	"github.com/Skotchmaster/dartz_league/internal/transport"
	"github.com/Skotchmaster/dartz_league/internal/validator"
)

type TournamentService struct {
	Repo *repo.GormRepo
}

func (s *TournamentService) Create(ctx context.Context, actor identity.Identity, req transport.CreateTournamentRequest) (*models.Tournament, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", validator.ErrValidation)
	}
	if req.StartsAt.IsZero() {
		return nil, fmt.Errorf("%w: startsAt is required", validator.ErrValidation)
	}

	t := &models.Tournament{
		Name:        name,
		Location:    strings.TrimSpace(req.Location),
		StartsAt:    req.StartsAt.UTC(),
		CreatedByID: actor.ID,
	}
	if err := s.Repo.CreateTournament(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RegisterTeam sizes the team from its player list and registers every
// player with status Registered.
func (s *TournamentService) RegisterTeam(ctx context.Context, actor identity.Identity, req transport.RegisterTeamRequest) (*models.Tournament, error) {
	if req.TournamentID == 0 {
		return nil, fmt.Errorf("%w: tournamentId is required", validator.ErrValidation)
	}
	name := strings.TrimSpace(req.Team.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", validator.ErrValidation)
	}
	if len(req.Team.Players) == 0 {
		return nil, fmt.Errorf("%w: team needs at least one player", validator.ErrValidation)
	}

	team := &models.TournamentTeam{
		TournamentID: req.TournamentID,
		Name:         name,
		TeamSize:     len(req.Team.Players),
		CreatedByID:  actor.ID,
	}
	seen := make(map[uint]struct{}, len(req.Team.Players))
	for _, p := range req.Team.Players {
		if p.ProfileID == 0 {
			return nil, fmt.Errorf("%w: player profileId is required", validator.ErrValidation)
		}
		if _, dup := seen[p.ProfileID]; dup {
			return nil, fmt.Errorf("%w: player %d listed twice", validator.ErrValidation, p.ProfileID)
		}
		seen[p.ProfileID] = struct{}{}

		team.Players = append(team.Players, models.TournamentTeamPlayer{
			ProfileID:   p.ProfileID,
			Status:      models.PlayerStatusRegistered,
			CreatedByID: actor.ID,
			UpdatedByID: actor.ID,
		})
	}

	return s.Repo.RegisterTeam(ctx, team)
}

func (s *TournamentService) UpdatePlayerStatus(ctx context.Context, actor identity.Identity, req transport.UpdatePlayerStatusRequest) (*models.TournamentTeamPlayer, error) {
	status := strings.TrimSpace(req.Status)
	if req.TournamentID == 0 || req.TeamID == 0 || req.PlayerID == 0 || status == "" {
		return nil, fmt.Errorf("%w: tournamentId, teamId, playerId and status are required", validator.ErrValidation)
	}
	return s.Repo.UpdatePlayerStatus(ctx, req.TournamentID, req.TeamID, req.PlayerID, actor.ID, status)
}
