package database

import (
	"strings"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/internal/domain/users"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
)

// missingReference maps a foreign key violation to the domain error of the
// referenced entity. It returns nil for any other error.
func missingReference(err error) error {
	if !pkgdb.IsForeignKeyViolation(err) {
		return nil
	}
	constraint := pkgdb.ViolatedConstraint(err)
	switch {
	case strings.Contains(constraint, "listing_id"):
		return listings.ErrListingNotFound
	case strings.Contains(constraint, "category"):
		return listings.ErrUnknownCategory
	default:
		return users.ErrUserNotFound
	}
}
