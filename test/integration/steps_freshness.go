package integration

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
)

// freshnessSteps drives the creation and expiration checks directly with
// Unix timestamps.
type freshnessSteps struct {
	now      time.Time
	claimed  time.Time
	observed time.Time
	expires  time.Time
}

func (f *freshnessSteps) register(sc *godog.ScenarioContext) {
	sc.Step(`^the current time is (\d+)$`, f.theCurrentTimeIs)
	sc.Step(`^no creation time is claimed$`, f.noCreationTimeIsClaimed)
	sc.Step(`^the claimed creation time is (\d+)$`, f.theClaimedCreationTimeIs)
	sc.Step(`^the token was created at (\d+)$`, f.theTokenWasCreatedAt)
	sc.Step(`^the token expires at (\d+)$`, f.theTokenExpiresAt)
	sc.Step(`^the creation check should (pass|fail)$`, f.theCreationCheckShould)
	sc.Step(`^the expiration check should (pass|fail)$`, f.theExpirationCheckShould)
}

func (f *freshnessSteps) theCurrentTimeIs(unix int64) error {
	f.now = time.Unix(unix, 0)
	return nil
}

func (f *freshnessSteps) noCreationTimeIsClaimed() error {
	f.claimed = time.Time{}
	return nil
}

func (f *freshnessSteps) theClaimedCreationTimeIs(unix int64) error {
	f.claimed = time.Unix(unix, 0)
	return nil
}

func (f *freshnessSteps) theTokenWasCreatedAt(unix int64) error {
	f.observed = time.Unix(unix, 0)
	return nil
}

func (f *freshnessSteps) theTokenExpiresAt(unix int64) error {
	f.expires = time.Unix(unix, 0)
	return nil
}

func expect(check string, got bool, outcome string) error {
	if want := outcome == "pass"; got != want {
		return fmt.Errorf("expected the %s check to %s", check, outcome)
	}
	return nil
}

func (f *freshnessSteps) theCreationCheckShould(outcome string) error {
	return expect("creation", token.CheckCreation(f.claimed, f.observed, f.now), outcome)
}

func (f *freshnessSteps) theExpirationCheckShould(outcome string) error {
	return expect("expiration", token.CheckExpiration(f.expires, f.now), outcome)
}
