package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the subset of the scenario context the generic steps use.
type TestContext interface {
	Do(method, path string, body any, headers map[string]string) error
	ResponseField(path string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers request and assertion steps shared by every feature.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the engine is running$`, steps.engineIsRunning)
	ctx.Step(`^I GET "([^"]*)" without identity$`, steps.getWithoutIdentity)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, steps.responseFieldShouldContain)
	ctx.Step(`^the response field "([^"]*)" should not contain "([^"]*)"$`, steps.responseFieldShouldNotContain)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) engineIsRunning(context.Context) error {
	if err := s.tc.Do("GET", "/health/live", nil, nil); err != nil {
		return err
	}
	return s.responseStatusShouldBe(context.Background(), 200)
}

func (s *commonSteps) getWithoutIdentity(_ context.Context, path string) error {
	return s.tc.Do("GET", path, nil, nil)
}

func (s *commonSteps) responseStatusShouldBe(_ context.Context, expectedStatus int) error {
	actualStatus := s.tc.GetLastResponseStatus()
	if actualStatus != expectedStatus {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", expectedStatus, actualStatus, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(_ context.Context, field, expectedValue string) error {
	actualValue, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}

func (s *commonSteps) responseFieldShouldContain(_ context.Context, field, expected string) error {
	actualValue, err := s.tc.ResponseField(field)
	if err != nil {
		return err
	}
	if !containsValue(actualValue, expected) {
		return fmt.Errorf("field %s: expected to contain %s but got %v", field, expected, actualValue)
	}
	return nil
}

func (s *commonSteps) responseFieldShouldNotContain(_ context.Context, field, unexpected string) error {
	actualValue, err := s.tc.ResponseField(field)
	if err != nil {
		// an absent list contains nothing
		return nil
	}
	if containsValue(actualValue, unexpected) {
		return fmt.Errorf("field %s: expected not to contain %s but got %v", field, unexpected, actualValue)
	}
	return nil
}

// containsValue matches list elements exactly and strings by substring.
func containsValue(v any, want string) bool {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if fmt.Sprint(item) == want {
				return true
			}
		}
		return false
	case nil:
		return false
	default:
		return strings.Contains(fmt.Sprint(t), want)
	}
}
