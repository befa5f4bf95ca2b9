package model

import "github.com/aarondl/opt/omitnull"

type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *string `json:"assigned_to"`
	ListID      string  `json:"list_id"`
}

type NewTask struct {
	Title       string  `json:"title" validate:"required"`
	ListID      string  `json:"list_id" validate:"required"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *string `json:"assigned_to_id"`
}

// TaskUpdate distinguishes a field that is absent from one explicitly set to null.
type TaskUpdate struct {
	Title       omitnull.Val[string] `json:"title"`
	Description omitnull.Val[string] `json:"description"`
	DueDate     omitnull.Val[string] `json:"due_date"`
	AssignedTo  omitnull.Val[string] `json:"assigned_to_id"`
	ListID      omitnull.Val[string] `json:"list_id"`
}
