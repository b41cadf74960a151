package integration

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/request"
)

// storeSteps exercises request-scoped notes shared by a main request and
// its subrequests.
type storeSteps struct {
	main *request.Transaction
	sub  *request.Transaction
}

func (s *storeSteps) register(sc *godog.ScenarioContext) {
	sc.Step(`^a main request$`, s.aMainRequest)
	sc.Step(`^a subrequest of the main request$`, s.aSubrequest)
	sc.Step(`^the (main request|subrequest) notes "([^"]*)" as "([^"]*)"$`, s.notes)
	sc.Step(`^the (main request|subrequest) removes "([^"]*)"$`, s.removes)
	sc.Step(`^the (main request|subrequest) should see "([^"]*)" as "([^"]*)"$`, s.shouldSee)
	sc.Step(`^the (main request|subrequest) should not see "([^"]*)"$`, s.shouldNotSee)
	sc.Step(`^the subrequest should share the transaction ID of the main request$`, s.shareID)
}

func (s *storeSteps) aMainRequest() error {
	s.main = request.New(diag.Discard)
	return nil
}

func (s *storeSteps) aSubrequest() error {
	if s.main == nil {
		return fmt.Errorf("no main request")
	}
	s.sub = s.main.Sub()
	return nil
}

func (s *storeSteps) tx(which string) (*request.Transaction, error) {
	tx := s.main
	if which == "subrequest" {
		tx = s.sub
	}
	if tx == nil {
		return nil, fmt.Errorf("no %s", which)
	}
	return tx, nil
}

func (s *storeSteps) notes(which, key, value string) error {
	tx, err := s.tx(which)
	if err != nil {
		return err
	}
	tx.Set(key, value)
	return nil
}

func (s *storeSteps) removes(which, key string) error {
	tx, err := s.tx(which)
	if err != nil {
		return err
	}
	tx.Remove(key)
	return nil
}

func (s *storeSteps) shouldSee(which, key, expected string) error {
	tx, err := s.tx(which)
	if err != nil {
		return err
	}
	value, ok := tx.Get(key)
	if !ok {
		return fmt.Errorf("%s has no note %q", which, key)
	}
	if value != expected {
		return fmt.Errorf("%s note %q is %v, expected %q", which, key, value, expected)
	}
	return nil
}

func (s *storeSteps) shouldNotSee(which, key string) error {
	tx, err := s.tx(which)
	if err != nil {
		return err
	}
	if value, ok := tx.Get(key); ok {
		return fmt.Errorf("%s unexpectedly has note %q = %v", which, key, value)
	}
	return nil
}

func (s *storeSteps) shareID() error {
	if s.main == nil || s.sub == nil {
		return fmt.Errorf("main request and subrequest are required")
	}
	if s.sub.ID() != s.main.ID() {
		return fmt.Errorf("subrequest ID %s differs from main request ID %s", s.sub.ID(), s.main.ID())
	}
	if s.sub.IsMain() || !s.main.IsMain() {
		return fmt.Errorf("main request flags are wrong")
	}
	return nil
}
