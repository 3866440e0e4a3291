// Package engine holds the step definitions for participant journeys:
// registration, missions, eligibility and tokens.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

// TestContext is the subset of the scenario context these steps use.
type TestContext interface {
	AsParticipant(name, method, path string, body any) error
	AsAdmin(method, path string, body any) error
	RememberParticipant(name, userID string)
	ParticipantID(name string) (string, bool)
	Save(key, value string)
	Saved(key string) (string, bool)
	ResponseField(path string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// evidenceURL satisfies missions that require evidence.
const evidenceURL = "https://example.com/impulsa/evidence.mp4"

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &engineSteps{tc: tc}

	ctx.Step(`^a participant "([^"]*)" is registered$`, steps.participantIsRegistered)
	ctx.Step(`^"([^"]*)" completes mission "([^"]*)"$`, steps.completesMission)
	ctx.Step(`^"([^"]*)" answers quiz "([^"]*)" with "([^"]*)"$`, steps.answersQuiz)
	ctx.Step(`^"([^"]*)" has completed "([^"]*)"$`, steps.hasCompleted)
	ctx.Step(`^the admin marks document "([^"]*)" of "([^"]*)" as "([^"]*)"$`, steps.setsDocument)
	ctx.Step(`^"([^"]*)" checks their progress$`, steps.checksProgress)
	ctx.Step(`^"([^"]*)" lists missions$`, steps.listsMissions)
	ctx.Step(`^"([^"]*)" checks eligibility for "([^"]*)"$`, steps.checksEligibility)
	ctx.Step(`^the missing requirements should be "([^"]*)"$`, steps.missingRequirementsShouldBe)
	ctx.Step(`^mission "([^"]*)" should be "([^"]*)"$`, steps.missionShouldBe)
	ctx.Step(`^"([^"]*)" requests a token for "([^"]*)"$`, steps.requestsToken)
	ctx.Step(`^"([^"]*)" verifies the saved token$`, steps.verifiesSavedToken)
	ctx.Step(`^"([^"]*)" eventually has a "([^"]*)" notification$`, steps.eventuallyHasNotification)
}

type engineSteps struct {
	tc TestContext
}

func (s *engineSteps) participantIsRegistered(_ context.Context, name string) error {
	email := fmt.Sprintf("%s-%s@e2e.impulsa.test", strings.ToLower(name), uuid.NewString()[:8])
	if err := s.tc.AsAdmin("POST", "/admin/users", map[string]string{"name": name, "email": email}); err != nil {
		return err
	}
	if err := s.expectStatus(201); err != nil {
		return err
	}
	userID, err := s.tc.ResponseField("user_id")
	if err != nil {
		return err
	}
	s.tc.RememberParticipant(name, fmt.Sprint(userID))
	return nil
}

func (s *engineSteps) completesMission(_ context.Context, name, missionID string) error {
	return s.tc.AsParticipant(name, "POST", "/missions/"+missionID+"/complete",
		map[string]any{"evidence": evidenceURL})
}

// answersQuiz takes the chosen option per question as a comma list, "1,1,2".
func (s *engineSteps) answersQuiz(_ context.Context, name, missionID, answers string) error {
	quiz := map[string]int{}
	for i, raw := range strings.Split(answers, ",") {
		choice, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("answer %d: %w", i, err)
		}
		quiz[strconv.Itoa(i)] = choice
	}
	return s.tc.AsParticipant(name, "POST", "/missions/"+missionID+"/complete",
		map[string]any{"quiz_answers": quiz})
}

// hasCompleted runs missions in order and requires each to succeed. Quizzes
// are answered from the answer key passed after a colon: "quiz:1,1,2".
func (s *engineSteps) hasCompleted(ctx context.Context, name, missions string) error {
	for _, entry := range strings.Split(missions, ";") {
		missionID, answers, isQuiz := strings.Cut(strings.TrimSpace(entry), ":")
		var err error
		if isQuiz {
			err = s.answersQuiz(ctx, name, missionID, answers)
		} else {
			err = s.completesMission(ctx, name, missionID)
		}
		if err != nil {
			return err
		}
		if err := s.expectStatus(200); err != nil {
			return fmt.Errorf("%s: %w", missionID, err)
		}
		success, err := s.tc.ResponseField("success")
		if err != nil {
			return err
		}
		if success != true {
			return fmt.Errorf("%s: completion did not succeed: %s", missionID, s.tc.GetLastResponseBody())
		}
	}
	return nil
}

func (s *engineSteps) setsDocument(_ context.Context, docType, name, status string) error {
	userID, ok := s.tc.ParticipantID(name)
	if !ok {
		return fmt.Errorf("participant %q is not registered in this scenario", name)
	}
	if err := s.tc.AsAdmin("PUT", "/admin/users/"+userID+"/documents/"+docType,
		map[string]string{"status": status}); err != nil {
		return err
	}
	return s.expectStatus(200)
}

func (s *engineSteps) checksProgress(_ context.Context, name string) error {
	return s.tc.AsParticipant(name, "GET", "/me/progress", nil)
}

func (s *engineSteps) listsMissions(_ context.Context, name string) error {
	return s.tc.AsParticipant(name, "GET", "/missions", nil)
}

func (s *engineSteps) checksEligibility(_ context.Context, name, targetID string) error {
	return s.tc.AsParticipant(name, "GET", "/eligibility/"+targetID, nil)
}

// missingRequirementsShouldBe compares rule ids regardless of order; an
// empty string expects none.
func (s *engineSteps) missingRequirementsShouldBe(_ context.Context, ruleIDs string) error {
	var body struct {
		Missing []struct {
			RuleID string `json:"rule_id"`
		} `json:"missing_requirements"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	got := make([]string, 0, len(body.Missing))
	for _, m := range body.Missing {
		got = append(got, m.RuleID)
	}
	want := []string{}
	if ruleIDs != "" {
		for _, r := range strings.Split(ruleIDs, ",") {
			want = append(want, strings.TrimSpace(r))
		}
	}
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return fmt.Errorf("missing requirements: expected %v but got %v", want, got)
	}
	return nil
}

func (s *engineSteps) missionShouldBe(_ context.Context, missionID, status string) error {
	var body struct {
		Missions []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"missions"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	for _, m := range body.Missions {
		if m.ID == missionID {
			if m.Status != status {
				return fmt.Errorf("mission %s: expected %s but got %s", missionID, status, m.Status)
			}
			return nil
		}
	}
	return fmt.Errorf("mission %s not listed", missionID)
}

func (s *engineSteps) requestsToken(_ context.Context, name, targetID string) error {
	if err := s.tc.AsParticipant(name, "POST", "/eligibility/tokens",
		map[string]string{"target_id": targetID}); err != nil {
		return err
	}
	if err := s.expectStatus(201); err != nil {
		return err
	}
	token, err := s.tc.ResponseField("token")
	if err != nil {
		return err
	}
	s.tc.Save("token", fmt.Sprint(token))
	return nil
}

func (s *engineSteps) verifiesSavedToken(_ context.Context, name string) error {
	token, ok := s.tc.Saved("token")
	if !ok {
		return fmt.Errorf("no token saved in this scenario")
	}
	return s.tc.AsParticipant(name, "POST", "/eligibility/tokens/verify", map[string]string{"token": token})
}

// eventuallyHasNotification polls the inbox because notifications are
// delivered by the asynchronous event publisher.
func (s *engineSteps) eventuallyHasNotification(_ context.Context, name, kind string) error {
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := s.tc.AsParticipant(name, "GET", "/notifications", nil); err != nil {
			return err
		}
		var body struct {
			Notifications []struct {
				Kind string `json:"kind"`
			} `json:"notifications"`
		}
		if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err == nil {
			for _, n := range body.Notifications {
				if n.Kind == kind {
					return nil
				}
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("no %s notification for %s: %s", kind, name, s.tc.GetLastResponseBody())
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (s *engineSteps) expectStatus(want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}
