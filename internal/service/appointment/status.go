package appointment

import (
	"slices"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
)

var transitions = map[repo.AppointmentStatus][]repo.AppointmentStatus{
	repo.StatusPending:     {repo.StatusConfirmed, repo.StatusCanceled, repo.StatusRescheduled},
	repo.StatusConfirmed:   {repo.StatusCompleted, repo.StatusCanceled, repo.StatusRescheduled},
	repo.StatusRescheduled: {repo.StatusConfirmed, repo.StatusCanceled, repo.StatusCompleted},
	repo.StatusCompleted:   nil,
	repo.StatusCanceled:    nil,
}

// Terminal reports whether s has no outgoing transitions.
func Terminal(s repo.AppointmentStatus) bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether an appointment in from may move to to.
// Staying in a non-terminal state is allowed.
func CanTransition(from, to repo.AppointmentStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return !Terminal(from)
	}
	return slices.Contains(transitions[from], to)
}

// confirmableFrom lists the states a settled payment may promote to Confirmed.
func confirmableFrom() []repo.AppointmentStatus {
	var out []repo.AppointmentStatus
	for _, s := range []repo.AppointmentStatus{
		repo.StatusPending, repo.StatusConfirmed, repo.StatusRescheduled,
		repo.StatusCompleted, repo.StatusCanceled,
	} {
		if CanTransition(s, repo.StatusConfirmed) {
			out = append(out, s)
		}
	}
	return out
}

func parseStatus(s string) (repo.AppointmentStatus, error) {
	st := repo.AppointmentStatus(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
