package model

type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List is a Kanban column inside a board.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
