package images

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
	ErrTooManyTags   = errors.New("too many tags")
	ErrNotOwner      = errors.New("image belongs to another user")
	ErrEmptyFile     = errors.New("empty image file")
)
