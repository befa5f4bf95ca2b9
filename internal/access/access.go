// Package access decides whether a principal may perform an action on a target.
//
// Targets are resolved by walking the ownership chain task -> list -> board -> team,
// so every decision reduces to comparing the principal against the owning team.
package access

import (
	"github.com/pkg/errors"
	"github.com/yakoovad/taskboard/internal/model"
)

var ErrPermissionDenied = errors.New("Permission denied")

type Action string

const (
	CreateUser Action = "create_user"
	CreateTeam Action = "create_team"

	ReadTeam   Action = "read_team"
	ListBoards Action = "list_boards"
	ListLists  Action = "list_lists"
	CreateTask Action = "create_task"
	UpdateTask Action = "update_task"
	DeleteTask Action = "delete_task"
	ListTasks  Action = "list_tasks"

	CreateBoard Action = "create_board"
	CreateList  Action = "create_list"
)

type scope int

const (
	scopeAdmin scope = iota
	scopeTeam
	scopeTeamAdmin
)

var scopes = map[Action]scope{
	CreateUser:  scopeAdmin,
	CreateTeam:  scopeAdmin,
	ReadTeam:    scopeTeam,
	ListBoards:  scopeTeam,
	ListLists:   scopeTeam,
	CreateTask:  scopeTeam,
	UpdateTask:  scopeTeam,
	DeleteTask:  scopeTeam,
	ListTasks:   scopeTeam,
	CreateBoard: scopeTeamAdmin,
	CreateList:  scopeTeamAdmin,
}

// Target is the team that owns the entity an action touches.
// The zero value is used for actions that are not tied to a team.
type Target struct {
	TeamID string
}

// Authorize returns nil when p may perform action on target, ErrPermissionDenied otherwise.
// Unknown actions are denied for everyone except the global admin.
func Authorize(p *model.Principal, action Action, target Target) error {
	if p == nil {
		return ErrPermissionDenied
	}
	if p.IsAdmin {
		return nil
	}

	s, ok := scopes[action]
	if !ok || s == scopeAdmin {
		return ErrPermissionDenied
	}

	if !p.HasTeam() || target.TeamID == "" || p.TeamID != target.TeamID {
		return ErrPermissionDenied
	}
	if s == scopeTeamAdmin && !p.IsTeamAdmin {
		return ErrPermissionDenied
	}

	return nil
}
