package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Send(method, path string, body any) error
	Expand(s string) string
	Save(name, value string)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers province and city step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &geoSteps{tc: tc}

	ctx.Step(`^a province "([^"]*)" exists as "([^"]*)"$`, steps.provinceExists)
	ctx.Step(`^a city "([^"]*)" exists in province "([^"]*)" as "([^"]*)"$`, steps.cityExists)
	ctx.Step(`^the province list filtered by "([^"]*)" should have (\d+) entries?$`, steps.provinceListShouldHave)
}

type geoSteps struct {
	tc TestContext
}

type listEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// provinceExists creates the province when missing and saves its ID.
func (s *geoSteps) provinceExists(ctx context.Context, name, alias string) error {
	name = s.tc.Expand(name)
	if err := s.tc.Send("POST", "/base/province", map[string]any{"name": name}); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 && status != 400 {
		return fmt.Errorf("create province %q: status %d: %s", name, status, s.tc.GetLastResponseBody())
	}

	if err := s.tc.Send("GET", "/base/province?name="+url.QueryEscape(name), nil); err != nil {
		return err
	}
	var list struct {
		Provinces []listEntry `json:"provinces"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &list); err != nil {
		return fmt.Errorf("failed to parse province list: %w", err)
	}
	return s.saveMatch(list.Provinces, name, alias)
}

func (s *geoSteps) cityExists(ctx context.Context, name, province, alias string) error {
	name = s.tc.Expand(name)
	provinceID := s.tc.Expand(province)
	if err := s.tc.Send("POST", "/base/city", map[string]any{"name": name, "province_id": json.Number(provinceID)}); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 && status != 400 {
		return fmt.Errorf("create city %q: status %d: %s", name, status, s.tc.GetLastResponseBody())
	}

	if err := s.tc.Send("GET", "/base/city?province="+url.QueryEscape(provinceID), nil); err != nil {
		return err
	}
	var list struct {
		Cities []listEntry `json:"cities"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &list); err != nil {
		return fmt.Errorf("failed to parse city list: %w", err)
	}
	return s.saveMatch(list.Cities, name, alias)
}

func (s *geoSteps) provinceListShouldHave(ctx context.Context, filter string, n int) error {
	if err := s.tc.Send("GET", "/base/province?name="+url.QueryEscape(s.tc.Expand(filter)), nil); err != nil {
		return err
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &list); err != nil {
		return fmt.Errorf("failed to parse province list: %w", err)
	}
	if list.Total != n {
		return fmt.Errorf("expected %d provinces matching %q, got %d", n, filter, list.Total)
	}
	return nil
}

func (s *geoSteps) saveMatch(entries []listEntry, name, alias string) error {
	for _, e := range entries {
		if e.Name == name {
			s.tc.Save(alias, fmt.Sprint(e.ID))
			return nil
		}
	}
	return fmt.Errorf("%q not found after create", name)
}
