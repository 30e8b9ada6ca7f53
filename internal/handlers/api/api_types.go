package api

import (
	"time"

	"github.com/khanghh/photoshare/internal/ratings"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
)

type APIResponse struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *APIErrorInfo `json:"error,omitempty"`
}

type APIErrorInfo struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Errors  []APIErrorDetail `json:"errors,omitempty"`
}

type APIErrorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func NewDataResponse(data any) APIResponse {
	return APIResponse{
		APIVersion: params.APIVersion,
		Data:       data,
	}
}

func NewErrorResponse(code int, message string, details ...APIErrorDetail) APIResponse {
	return APIResponse{
		APIVersion: params.APIVersion,
		Error: &APIErrorInfo{
			Code:    code,
			Message: message,
			Errors:  details,
		},
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserInfoResponse struct {
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Sex       string    `json:"sex,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserProfileResponse struct {
	UserID     uint      `json:"userId"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       string    `json:"role"`
	ImageCount int64     `json:"imageCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TagResponse struct {
	TagID uint   `json:"tagId"`
	Name  string `json:"name"`
}

type ImageResponse struct {
	ImageID     uint          `json:"imageId"`
	UserID      uint          `json:"userId"`
	URL         string        `json:"url"`
	Description string        `json:"description"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type CommentResponse struct {
	CommentID uint      `json:"commentId"`
	UserID    uint      `json:"userId"`
	ImageID   uint      `json:"imageId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RatingResponse struct {
	RatingID  uint      `json:"ratingId"`
	UserID    uint      `json:"userId"`
	ImageID   uint      `json:"imageId"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"createdAt"`
}

type ImageScoreResponse struct {
	ImageID uint    `json:"imageId"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type RatedImageResponse struct {
	Image   ImageResponse `json:"image"`
	Average float64       `json:"average"`
	Count   int64         `json:"count"`
}

func newUserInfoResponse(user *model.User) UserInfoResponse {
	return UserInfoResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Sex:       user.Sex,
		Avatar:    user.Avatar,
		Role:      user.Role.String(),
		Banned:    user.Banned,
		CreatedAt: user.CreatedAt,
	}
}

func newTagResponse(tag *model.Tag) TagResponse {
	return TagResponse{TagID: tag.ID, Name: tag.Name}
}

func newImageResponse(image *model.Image) ImageResponse {
	tags := make([]TagResponse, 0, len(image.Tags))
	for i := range image.Tags {
		tags = append(tags, newTagResponse(&image.Tags[i]))
	}
	return ImageResponse{
		ImageID:     image.ID,
		UserID:      image.UserID,
		URL:         image.URL,
		Description: image.Description,
		Tags:        tags,
		CreatedAt:   image.CreatedAt,
		UpdatedAt:   image.UpdatedAt,
	}
}

func newCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		CommentID: comment.ID,
		UserID:    comment.UserID,
		ImageID:   comment.ImageID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func newRatingResponse(rating *model.Rating) RatingResponse {
	return RatingResponse{
		RatingID:  rating.ID,
		UserID:    rating.UserID,
		ImageID:   rating.ImageID,
		Rate:      rating.Rate,
		CreatedAt: rating.CreatedAt,
	}
}

func newImageScoreResponse(score *ratings.ImageScore) ImageScoreResponse {
	return ImageScoreResponse{
		ImageID: score.ImageID,
		Average: score.Average,
		Count:   score.Count,
	}
}

func mapSlice[T any, R any](items []T, fn func(T) R) []R {
	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, fn(item))
	}
	return result
}
