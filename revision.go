package artmatch

// A Revision selects which version of the route table an artmatch app serves.
//
// The two revisions differ only in where visitors land:
// logged-in users visiting the login page, and anonymous visitors hitting the root URL.
type Revision string

const (
	// RevisionProfile sends logged-in users from the login page to their profile
	// and anonymous visitors to the login page.
	RevisionProfile Revision = "profile"

	// RevisionExplore adds the public explore page,
	// sending logged-in users from the login page there
	// as well as anonymous visitors.
	RevisionExplore Revision = "explore"
)

var _ Enumerable = Revision("")

func (r Revision) String() string { return string(r) }

func (r Revision) Valid() error {
	switch r {
	case RevisionProfile, RevisionExplore:
		return nil
	default:
		return ErrNotValid
	}
}

// HasExplore asserts whether the public explore page is part of the route table.
func (r Revision) HasExplore() bool { return r == RevisionExplore }
