// models/team.go
package models

// Team is a derived view: the participant entries of one event sharing a team
// name. It is never persisted; the roster projector rebuilds it from the flat
// participant list.
type Team struct {
	Name    string             `json:"name"`
	Leader  *ParticipantEntry  `json:"leader,omitempty"`
	Members []ParticipantEntry `json:"members"`
	Size    int                `json:"size"`
}

// Public returns a copy of the team with contact details stripped, for the
// unauthenticated participant listing.
func (t Team) Public() Team {
	out := Team{Name: t.Name, Size: t.Size}
	if t.Leader != nil {
		l := *t.Leader
		l.Email = ""
		l.Mobile = ""
		out.Leader = &l
	}
	out.Members = make([]ParticipantEntry, len(t.Members))
	for i, m := range t.Members {
		m.Email = ""
		m.Mobile = ""
		out.Members[i] = m
	}
	return out
}
