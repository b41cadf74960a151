package integration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	instance     *ServerInstance
	httpClient   *http.Client
	response     *http.Response
	responseBody []byte
	authToken    string

	store     *storeSteps
	freshness *freshnessSteps
}

// NewStepsContext creates a new steps context
func NewStepsContext() *StepsContext {
	return &StepsContext{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      &storeSteps{},
		freshness:  &freshnessSteps{},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.instance != nil {
			s.instance.Stop()
			s.instance = nil
		}
		return ctx, err
	})

	// Server steps
	sc.Step(`^a WebAuth server accepting "([^"]*)" tokens$`, s.aServerAccepting)
	sc.Step(`^a WebAuth server accepting freshly issued "([^"]*)" tokens$`, s.aServerAcceptingFresh)
	sc.Step(`^a WebAuth server accepting "([^"]*)" tokens sealed with JWT key "([^"]*)"$`, s.aServerAcceptingJWT)
	sc.Step(`^a WebAuth server accepting "([^"]*)" tokens sealed with JWT key "([^"]*)" and only "([^"]*)" enabled$`, s.aServerAcceptingJWTOnly)
	sc.Step(`^the clock advances (\d+) seconds$`, s.theClockAdvances)

	// Token steps
	sc.Step(`^I have an? "([^"]*)" token for "([^"]*)" created (-?\d+) seconds ago expiring in (-?\d+) seconds$`, s.iHaveAToken)
	sc.Step(`^I have a raw token "([^"]*)"$`, s.iHaveARawToken)

	// Request steps
	sc.Step(`^I request "([^"]*)" with the token$`, s.iRequestWithTheToken)
	sc.Step(`^I request "([^"]*)" with the token in cookie "([^"]*)"$`, s.iRequestWithTheTokenInCookie)
	sc.Step(`^I request "([^"]*)"$`, s.iRequest)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the response body should contain:$`, s.theResponseBodyShouldContainDocString)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the audit log should contain "([^"]*)"$`, s.theAuditLogShouldContain)

	s.store.register(sc)
	s.freshness.register(sc)
}

// Server steps

func (s *StepsContext) start(cfg ServerConfig) error {
	instance, err := StartServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.instance = instance
	return nil
}

func (s *StepsContext) aServerAccepting(kindName string) error {
	kind, err := token.KindString(kindName)
	if err != nil {
		return err
	}
	cfg := DefaultServerConfig()
	cfg.TokenKind = kind
	return s.start(cfg)
}

func (s *StepsContext) aServerAcceptingFresh(kindName string) error {
	kind, err := token.KindString(kindName)
	if err != nil {
		return err
	}
	cfg := DefaultServerConfig()
	cfg.TokenKind = kind
	cfg.FreshIssueKinds = []token.Kind{kind}
	return s.start(cfg)
}

func (s *StepsContext) aServerAcceptingJWT(kindName, key string) error {
	kind, err := token.KindString(kindName)
	if err != nil {
		return err
	}
	cfg := DefaultServerConfig()
	cfg.TokenKind = kind
	cfg.Unsealer = unseal.NameJWT
	cfg.JWTKey = []byte(key)
	return s.start(cfg)
}

func (s *StepsContext) aServerAcceptingJWTOnly(kindName, key, enabled string) error {
	kind, err := token.KindString(kindName)
	if err != nil {
		return err
	}
	cfg := DefaultServerConfig()
	cfg.TokenKind = kind
	cfg.Unsealer = unseal.NameJWT
	cfg.JWTKey = []byte(key)
	cfg.EnabledUnsealers = strings.Split(enabled, ",")
	return s.start(cfg)
}

func (s *StepsContext) theClockAdvances(seconds int) error {
	if s.instance == nil {
		return fmt.Errorf("no server is running")
	}
	s.instance.Clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

// Token steps

func (s *StepsContext) iHaveAToken(kindName, subject string, createdAgo, expiresIn int) error {
	if s.instance == nil {
		return fmt.Errorf("no server is running")
	}
	kind, err := token.KindString(kindName)
	if err != nil {
		return err
	}

	now := s.instance.Clock.Now()
	created := now.Add(-time.Duration(createdAgo) * time.Second)
	expires := now.Add(time.Duration(expiresIn) * time.Second)

	var tok token.Token
	switch kind {
	case token.KindApp:
		tok = &token.App{Subject: subject, InitialFactors: "p", LOA: 1, Creation: created, Expiration: expires}
	case token.KindID:
		tok = &token.ID{Subject: subject, AuthType: "webkdc", InitialFactors: "p", Creation: created, Expiration: expires}
	case token.KindWebkdcFactor:
		tok = &token.WebkdcFactor{Subject: subject, Factors: "d", Creation: created, Expiration: expires}
	case token.KindWebkdcProxy:
		tok = &token.WebkdcProxy{Subject: "krb5:webkdc", ProxySubject: subject, ProxyType: "krb5", Creation: created, Expiration: expires}
	default:
		return fmt.Errorf("cannot build %s tokens", kind)
	}

	list, err := token.Encode(tok)
	if err != nil {
		return err
	}
	return s.seal(list)
}

func (s *StepsContext) iHaveARawToken(raw string) error {
	s.authToken = base64.URLEncoding.EncodeToString([]byte(raw))
	return nil
}

func (s *StepsContext) seal(list *attr.List) error {
	var (
		sealed []byte
		err    error
	)
	if s.instance.Config.Unsealer == unseal.NameJWT {
		sealed, err = unseal.SealJWT(s.instance.Config.JWTKey, list)
	} else {
		sealed, err = attr.Encode(list)
	}
	if err != nil {
		return err
	}
	s.authToken = base64.URLEncoding.EncodeToString(sealed)
	return nil
}

// Request steps

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

func (s *StepsContext) newRequest(path string) (*http.Request, error) {
	if s.instance == nil {
		return nil, fmt.Errorf("no server is running")
	}
	return http.NewRequest("GET", s.instance.ServerURL+path, nil)
}

func (s *StepsContext) iRequest(path string) error {
	req, err := s.newRequest(path)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iRequestWithTheToken(path string) error {
	req, err := s.newRequest(path)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf(`WebAuth token="%s"`, s.authToken))
	return s.do(req)
}

func (s *StepsContext) iRequestWithTheTokenInCookie(path, cookie string) error {
	req, err := s.newRequest(path)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: cookie, Value: s.authToken})
	return s.do(req)
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	if got := strings.TrimSpace(string(s.responseBody)); got != expected {
		return fmt.Errorf("expected body %q, got %q", expected, got)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContainDocString(doc *godog.DocString) error {
	return s.theResponseBodyShouldContain(strings.TrimSpace(doc.Content))
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	value, ok := body[field]
	if !ok {
		return fmt.Errorf("response has no field %q: %s", field, string(s.responseBody))
	}
	if got := fmt.Sprint(value); got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, got)
	}
	return nil
}

func (s *StepsContext) theAuditLogShouldContain(expected string) error {
	if s.instance == nil {
		return fmt.Errorf("no server is running")
	}
	if log := s.instance.Audit.String(); !strings.Contains(log, expected) {
		return fmt.Errorf("expected audit log to contain %q, got %q", expected, log)
	}
	return nil
}
