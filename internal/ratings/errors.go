package ratings

import "errors"

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrOwnImage       = errors.New("cannot rate own image")
	ErrAlreadyRated   = errors.New("image already rated")
)
