// utils/csv.go - CSV export of projected team rosters
package utils

import (
	"bytes"
	"encoding/csv"
	"technova/models"
)

var teamCSVHeader = []string{"Team", "Role", "Fest ID", "Name", "Email", "Mobile", "Registered At"}

// TeamsCSV renders the projected teams of one event as CSV, one row per
// participant, leader row first within each team.
func TeamsCSV(teams []models.Team) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(teamCSVHeader); err != nil {
		return nil, err
	}

	for _, team := range teams {
		if team.Leader != nil {
			if err := w.Write(teamCSVRow(team.Name, *team.Leader)); err != nil {
				return nil, err
			}
		}
		for _, m := range team.Members {
			if err := w.Write(teamCSVRow(team.Name, m)); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func teamCSVRow(teamName string, p models.ParticipantEntry) []string {
	return []string{
		teamName,
		string(p.Role),
		p.FestID,
		p.Name,
		p.Email,
		p.Mobile,
		p.RegistrationDate.Format("2006-01-02 15:04:05"),
	}
}
