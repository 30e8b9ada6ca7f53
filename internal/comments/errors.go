package comments

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthor       = errors.New("comment belongs to another user")
)
