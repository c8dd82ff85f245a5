// services/roster.go - Team roster projection
package services

import (
	"sort"
	"technova/models"
)

// ProjectTeams rebuilds the per-team view from an event's flat participant
// list: entries grouped by team name, the single team_leader entry as leader,
// the rest as members, sorted by team name for deterministic output. Entries
// with a zero user reference are orphaned data and are skipped, not an error;
// the skipped count is returned for observability. Pure and idempotent.
func ProjectTeams(entries []models.ParticipantEntry) ([]models.Team, int) {
	grouped := make(map[string]*models.Team)
	skipped := 0

	for _, entry := range entries {
		if entry.UserID.IsZero() {
			skipped++
			continue
		}

		team, ok := grouped[entry.TeamName]
		if !ok {
			team = &models.Team{Name: entry.TeamName, Members: []models.ParticipantEntry{}}
			grouped[entry.TeamName] = team
		}

		if entry.Role == models.RoleTeamLeader {
			e := entry
			team.Leader = &e
		} else {
			team.Members = append(team.Members, entry)
		}
	}

	teams := make([]models.Team, 0, len(grouped))
	for _, team := range grouped {
		team.Size = len(team.Members)
		if team.Leader != nil {
			team.Size++
		}
		teams = append(teams, *team)
	}

	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, skipped
}
