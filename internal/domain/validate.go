package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidatePools checks every pool item against its struct tags. Used at load
// time so malformed seed data fails fast instead of surfacing mid-game.
func ValidatePools(pools Pools) error {
	for category, items := range pools {
		for i, item := range items {
			if err := validate.Struct(item); err != nil {
				return fmt.Errorf("pool %q item %d (%s): %w", category, i, item.ID, err)
			}
		}
	}
	return nil
}
