package kinds

import "flowdeck/internal/nav"

// ActivitySpec describes the pending-activity kind. It is detail-only: a
// pending activity is addressed under its workflow and has no collection
// route of its own — the workflow detail's pending pane is its listing.
func ActivitySpec() Spec {
	return Spec{
		Kind:   nav.KindActivities,
		Label:  "Pending Activities",
		Detail: &DetailSpec{},
	}
}
