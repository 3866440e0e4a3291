package mission

import (
	"fmt"
	"time"

	"impulsa/internal/mission/models"
	"impulsa/internal/platform/config"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
)

// FromCatalog turns authored mission specs into missions and validates
// them as a whole: types, quiz content and the prerequisite graph.
func FromCatalog(specs []config.MissionSpec, now time.Time) ([]*models.Mission, error) {
	missions := make([]*models.Mission, 0, len(specs))
	for _, spec := range specs {
		m, err := fromSpec(spec, now)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := ValidateGraph(missions); err != nil {
		return nil, err
	}
	return missions, nil
}

func fromSpec(spec config.MissionSpec, now time.Time) (*models.Mission, error) {
	missionID, err := id.ParseMissionID(spec.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "invalid mission id")
	}
	m := &models.Mission{
		ID:               missionID,
		Title:            spec.Title,
		Description:      spec.Description,
		Type:             models.Type(spec.Type),
		Position:         spec.Position,
		CompetenceArea:   spec.CompetenceArea,
		EvidenceRequired: spec.EvidenceRequired,
		AutoApprove:      spec.AutoApprove,
		PointsReward:     spec.Points,
		CoinsReward:      spec.Coins,
		CreatedAt:        now,
	}
	for _, p := range spec.Prerequisites {
		prereq, err := id.ParseMissionID(p)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeConfiguration,
				fmt.Sprintf("mission %s has an invalid prerequisite", missionID))
		}
		m.Prerequisites = append(m.Prerequisites, prereq)
	}
	for _, q := range spec.Questions {
		m.Questions = append(m.Questions, models.Question{
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
		})
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks a single mission's authored content.
func Validate(m *models.Mission) error {
	if !m.Type.IsValid() {
		return dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("mission %s has unknown type %q", m.ID, m.Type))
	}
	if m.PointsReward < 0 || m.CoinsReward < 0 {
		return dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("mission %s has a negative reward", m.ID))
	}
	if m.IsQuiz() && len(m.Questions) == 0 {
		return dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("quiz mission %s has no questions", m.ID))
	}
	for i, q := range m.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("mission %s question %d answer is out of range", m.ID, i))
		}
	}
	return nil
}
