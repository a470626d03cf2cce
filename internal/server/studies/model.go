// Package studies implements study-post CRUD: recruitment posts that users
// create, browse, edit, and apply to.
package studies

import "time"

type Study struct {
	ID           int64
	AuthorID     string
	Title        string
	Description  string
	Status       string
	Category     string
	Schedule     string
	Location     string
	RecruitCount int
	Curriculum   string
	Views        int
	IsTemp       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// AuthorName is resolved by join, not stored on the study row.
	AuthorName string
}

// Input carries the client-editable fields of a study post.
type Input struct {
	Title        string
	Description  string
	Status       string
	Category     string
	Schedule     string
	Location     string
	RecruitCount int
	Curriculum   string
}
