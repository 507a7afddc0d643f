// Identity resolution: CVCS users map to DVCS author/committer identities
// through a small configured table (spec.md leaves per-user mapping out of
// scope beyond "some lookup exists"); the snapshot bootstrap commit, which
// has no CVCS user, falls back to the invoking operator's own identity (the
// reconciler's synthetic change-set instead goes through the table under
// the sentinel user "Unknown"). Grounded on surgeon/inner.go's
// whoami(), generalized from a single global call site into a type so tests
// can substitute a fixed identity.

package main

import (
	"log"

	fqme "gitlab.com/esr/fqme"
)

// identityLookup maps a CVCS user id to the (name, email) pair a commit
// attributed to that user should carry.
type identityLookup map[string]struct {
	Name  string
	Email string
}

func (l identityLookup) resolve(userID string) (string, string) {
	if entry, ok := l[userID]; ok {
		return entry.Name, entry.Email
	}
	return userID, userID
}

// operatorIdentity asks the environment who is actually running the bridge,
// for commits with no CVCS user attached. testIdentity, when set, overrides
// the lookup so tests never depend on the invoking user's machine identity.
var testIdentity *struct{ Name, Email string }

func operatorIdentity() (string, string) {
	if testIdentity != nil {
		return testIdentity.Name, testIdentity.Email
	}
	name, email, err := fqme.WhoAmI()
	if err != nil {
		log.Fatalf("bridge: can't deduce operator identity: %v", err)
	}
	return name, email
}
