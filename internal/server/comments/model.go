// Package comments implements the two-level comment threads attached to
// study posts.
package comments

import "time"

type Comment struct {
	ID        int64
	StudyID   int64
	AuthorID  string
	ParentID  *int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// AuthorName is resolved by join, not stored on the comment row.
	AuthorName string
	// Replies holds child comments when listing a thread.
	Replies []*Comment
}
