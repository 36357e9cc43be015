package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/gurney/pkg/types"
)

// ErrInvalidTarget marks a target descriptor that selects none of the
// known lookup strategies.
var ErrInvalidTarget = errors.New("invalid target")

// resolveLocator maps a target descriptor to a Playwright locator.
// Each target kind maps to exactly one native lookup strategy:
// accessible role+name, visible text substring, form label text, or
// input placeholder text.
//
// Ambiguous matches take the first element in document order. That is a
// deliberate simplification, not a correctness guarantee: on pages with
// duplicate labels the pick is effectively arbitrary.
func resolveLocator(page playwright.Page, target *types.Target) (playwright.Locator, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: no target descriptor", ErrInvalidTarget)
	}

	var locator playwright.Locator
	switch target.Kind() {
	case types.TargetRoleName:
		locator = page.GetByRole(playwright.AriaRole(target.Role), playwright.PageGetByRoleOptions{
			Name: target.Name,
		})
	case types.TargetText:
		locator = page.GetByText(target.Text, playwright.PageGetByTextOptions{
			Exact: playwright.Bool(false),
		})
	case types.TargetLabel:
		locator = page.GetByLabel(target.Label)
	case types.TargetPlaceholder:
		locator = page.GetByPlaceholder(target.Placeholder)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, target.String())
	}

	return locator.First(), nil
}
