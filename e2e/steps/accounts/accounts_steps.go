package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Send(method, path string, body any) error
	SendForm(method, path string, fields map[string]string) error
	Expand(s string) string
	Save(name, value string)
	SetAccessToken(token string)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers login and user management step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &accountSteps{tc: tc}

	ctx.Step(`^I am logged in as the admin$`, steps.loginAsAdmin)
	ctx.Step(`^I log in with phone "([^"]*)" and password "([^"]*)"$`, steps.login)
	ctx.Step(`^I am not logged in$`, steps.logout)
	ctx.Step(`^I send a (POST|PATCH) form to "([^"]*)" with:$`, steps.sendForm)
	ctx.Step(`^I find the user "([^"]*)" as "([^"]*)"$`, steps.findUser)
}

type accountSteps struct {
	tc TestContext
}

func (s *accountSteps) loginAsAdmin(ctx context.Context) error {
	phone := envOr("E2E_ADMIN_PHONE", "09120000000")
	password := envOr("E2E_ADMIN_PASSWORD", "Abcdef1!")
	if err := s.login(ctx, phone, password); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("admin login failed with status %d: %s", status, s.tc.GetLastResponseBody())
	}
	return nil
}

// login stores the token on success; the response stays available for
// assertions either way.
func (s *accountSteps) login(ctx context.Context, phone, password string) error {
	s.tc.SetAccessToken("")
	body := map[string]any{
		"phone_number": s.tc.Expand(phone),
		"password":     s.tc.Expand(password),
	}
	if err := s.tc.Send("POST", "/users/login", body); err != nil {
		return err
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if s.tc.GetLastResponseStatus() == 200 {
		if err := json.Unmarshal(s.tc.GetLastResponseBody(), &resp); err != nil {
			return fmt.Errorf("failed to parse token response: %w", err)
		}
		s.tc.SetAccessToken(resp.AccessToken)
	}
	return nil
}

func (s *accountSteps) logout(ctx context.Context) error {
	s.tc.SetAccessToken("")
	return nil
}

func (s *accountSteps) sendForm(ctx context.Context, method, path string, table *godog.Table) error {
	fields := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("form rows need exactly two cells")
		}
		fields[row.Cells[0].Value] = row.Cells[1].Value
	}
	return s.tc.SendForm(method, path, fields)
}

func (s *accountSteps) findUser(ctx context.Context, username, alias string) error {
	username = s.tc.Expand(username)
	if err := s.tc.Send("GET", "/users?username="+username, nil); err != nil {
		return err
	}
	var list struct {
		Profiles []struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"profiles"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &list); err != nil {
		return fmt.Errorf("failed to parse user list: %w", err)
	}
	for _, p := range list.Profiles {
		if p.Username == username {
			s.tc.Save(alias, fmt.Sprint(p.ID))
			return nil
		}
	}
	return fmt.Errorf("user %q not found", username)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
