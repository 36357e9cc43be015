package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/gurney/pkg/types"
)

const (
	// clickTimeout bounds a single element interaction, in milliseconds.
	clickTimeout = 5000

	// settleTimeout bounds the post-action network-idle wait.
	settleTimeout = 5000

	// actionDelay is the fixed minimum pause between interactions, giving
	// client-side rendering time to settle before the next snapshot.
	// Skipping it causes stale-snapshot bugs.
	actionDelay = 3000

	// scrollDelta is the fixed scroll magnitude in pixels.
	scrollDelta = 600

	// maxWaitSeconds clamps wait actions so a misbehaving model cannot
	// stall the run.
	maxWaitSeconds = 10
)

// ActionError wraps a resolution or interaction failure during
// execution. The run loop folds it back into the conversation so the
// model can try a different approach.
type ActionError struct {
	Action *types.Action
	Cause  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("Action '%s' failed: %v", e.Action.Type, e.Cause)
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}

// Execute performs one action against the page. For answer actions it
// returns the answer text with terminal=true and touches nothing; every
// other action mutates the page and then waits for quiescence.
//
// Failures are returned as *ActionError and are recoverable: the run
// continues on the next step.
func (b *Browser) Execute(action *types.Action) (result string, terminal bool, err error) {
	switch action.Type {
	case types.ActionAnswer:
		return action.Text, true, nil

	case types.ActionClick:
		err = b.click(action)

	case types.ActionFill:
		err = b.fill(action)

	case types.ActionNavigate:
		err = b.navigateAction(action)

	case types.ActionScroll:
		err = b.scroll(action)

	case types.ActionWait:
		// Deliberate pause; the settle wait below would only double it.
		b.waitFor(action.Seconds)
		return "", false, nil

	default:
		// Unknown tags are rejected at decode time; this is a safety net
		// for actions constructed in code.
		b.warnf("unknown action %q, treating as no-op", action.Type)
		return "", false, nil
	}

	if err != nil {
		return "", false, &ActionError{Action: action, Cause: err}
	}

	b.settle()
	return "", false, nil
}

func (b *Browser) click(action *types.Action) error {
	locator, err := resolveLocator(b.page, action.Target)
	if err != nil {
		return err
	}

	return locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(clickTimeout),
	})
}

func (b *Browser) fill(action *types.Action) error {
	locator, err := resolveLocator(b.page, action.Target)
	if err != nil {
		return err
	}

	if err := locator.Fill(action.Text, playwright.LocatorFillOptions{
		Timeout: playwright.Float(clickTimeout),
	}); err != nil {
		return err
	}

	if action.Submit {
		return locator.Press("Enter")
	}
	return nil
}

func (b *Browser) navigateAction(action *types.Action) error {
	_, err := b.page.Goto(action.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeout),
	})
	return err
}

func (b *Browser) scroll(action *types.Action) error {
	delta := float64(scrollDelta)
	if action.Direction == types.ScrollUp {
		delta = -delta
	}
	return b.page.Mouse().Wheel(0, delta)
}

func (b *Browser) waitFor(seconds float64) {
	b.page.WaitForTimeout(clampWaitSeconds(seconds) * 1000)
}

// settle waits for a quiescent network state (bounded, best effort) and
// then imposes the fixed inter-action delay.
func (b *Browser) settle() {
	if err := b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(settleTimeout),
	}); err != nil {
		b.debugf("network idle timeout after action, continuing: %v", err)
	}
	b.page.WaitForTimeout(actionDelay)
}

// clampWaitSeconds bounds a requested wait to (0, maxWaitSeconds].
func clampWaitSeconds(seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	if seconds > maxWaitSeconds {
		return maxWaitSeconds
	}
	return seconds
}
