package store

import (
	"errors"
	"strings"
)

// registerConflict classifies a duplicate key violation on registration.
// The unique indexes cover subjectId and email; a subjectId collision means
// the caller already has a profile, which is not the same conversation as a
// taken email address. Mongo only exposes the violated index through the
// error message, so that is what gets inspected.
func registerConflict(err error, alreadyRegistered, emailTaken string) error {
	if strings.Contains(err.Error(), "subjectId") {
		return errors.New(alreadyRegistered)
	}
	return errors.New(emailTaken)
}
