package main

import (
	"context"

	mmodels "impulsa/internal/mission/models"
	id "impulsa/pkg/domain"
)

// missionAreas adapts the mission store to the eligibility AreaIndexer. It
// reads the store directly so the eligibility service can be built before
// the mission service, which depends on it for cache invalidation.
type missionAreas struct {
	store interface {
		List(ctx context.Context) ([]*mmodels.Mission, error)
	}
}

func (a missionAreas) AreaIndex(ctx context.Context) (map[id.MissionID]string, error) {
	missions, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	areas := make(map[id.MissionID]string, len(missions))
	for _, m := range missions {
		areas[m.ID] = m.CompetenceArea
	}
	return areas, nil
}
