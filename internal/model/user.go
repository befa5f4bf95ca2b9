package model

// Principal is the authenticated caller, rebuilt from storage on every request.
type Principal struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	IsTeamAdmin bool   `json:"is_team_admin"`
	TeamID      string `json:"team_id,omitempty"`
}

// HasTeam reports whether the principal belongs to any team.
func (p *Principal) HasTeam() bool {
	return p != nil && p.TeamID != ""
}

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"is_admin"`
	IsTeamAdmin bool   `json:"is_team_admin"`
	TeamID      string `json:"team_id,omitempty"`
}
