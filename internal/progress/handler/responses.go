package handler

import (
	"time"

	"impulsa/internal/progress/models"
	"impulsa/internal/progress/service"
	id "impulsa/pkg/domain"
)

type LevelResponse struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	PointsInLevel int    `json:"points_in_level"`
	NextThreshold *int   `json:"next_threshold"`
	PointsToNext  int    `json:"points_to_next"`
}

type ProgressResponse struct {
	UserID            id.UserID                        `json:"user_id"`
	Name              string                           `json:"name"`
	Points            int                              `json:"points"`
	Coins             int                              `json:"coins"`
	CurrentStreak     int                              `json:"current_streak"`
	BestStreak        int                              `json:"best_streak"`
	LastActivity      *time.Time                       `json:"last_activity"`
	Level             LevelResponse                    `json:"level"`
	CompletedMissions []id.MissionID                   `json:"completed_missions"`
	PendingReviews    []id.MissionID                   `json:"pending_reviews"`
	Documents         map[string]models.DocumentStatus `json:"documents"`
	Badges            []id.BadgeID                     `json:"badges"`
}

type UserResponse struct {
	UserID    id.UserID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

type DocumentsResponse struct {
	UserID    id.UserID                        `json:"user_id"`
	Documents map[string]models.DocumentStatus `json:"documents"`
}

type LeaderboardEntryResponse struct {
	Rank   int       `json:"rank"`
	UserID id.UserID `json:"user_id"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
	Level  int       `json:"level"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
}

func toProgressResponse(v *service.View) *ProgressResponse {
	p := v.Progress
	pending := make([]id.MissionID, 0, len(p.PendingReviews))
	for missionID := range p.PendingReviews {
		pending = append(pending, missionID)
	}
	completed := p.CompletedMissions
	if completed == nil {
		completed = []id.MissionID{}
	}
	return &ProgressResponse{
		UserID:        p.ID,
		Name:          p.Name,
		Points:        p.Points,
		Coins:         p.Coins,
		CurrentStreak: p.CurrentStreak,
		BestStreak:    p.BestStreak,
		LastActivity:  p.LastActivity,
		Level: LevelResponse{
			Number:        v.Placement.Level.Number,
			Name:          v.Placement.Level.Name,
			PointsInLevel: v.Placement.PointsInLevel,
			NextThreshold: v.Placement.NextThreshold,
			PointsToNext:  v.Placement.PointsToNext(p.Points),
		},
		CompletedMissions: completed,
		PendingReviews:    sortedMissionIDs(pending),
		Documents:         p.Documents,
		Badges:            p.BadgeIDs(),
	}
}
