package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/internal/middlewares"
)

type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Images   *ImageHandler
	Tags     *TagHandler
	Comments *CommentHandler
	Ratings  *RatingHandler
}

// SetupRoutes mounts the JSON API. Every route except signup, login and
// refresh requires a bearer access token.
func SetupRoutes(router fiber.Router, resolver middlewares.IdentityResolver, h Handlers) {
	var (
		authenticate     = middlewares.Authenticate(resolver)
		anyRole          = middlewares.RequireRoles(auth.AllRoles)
		adminOrModerator = middlewares.RequireRoles(auth.AdminAndModerator)
		adminOnly        = middlewares.RequireRoles(auth.AdminOnly)
	)

	authRouter := router.Group("/auth")
	authRouter.Post("/signup", h.Auth.PostSignup)
	authRouter.Post("/login", h.Auth.PostLogin)
	authRouter.Post("/refresh", h.Auth.PostRefresh)
	authRouter.Post("/logout", authenticate, h.Auth.PostLogout)

	userRouter := router.Group("/users", authenticate)
	userRouter.Get("/me", anyRole, h.Users.GetMe)
	userRouter.Patch("/me", anyRole, h.Users.PatchMe)
	userRouter.Get("/", adminOrModerator, h.Users.ListUsers)
	userRouter.Get("/:id", anyRole, h.Users.GetUserProfile)
	userRouter.Put("/:id/ban", adminOnly, h.Users.PutBan)
	userRouter.Delete("/:id/ban", adminOnly, h.Users.DeleteBan)
	userRouter.Put("/:id/role", adminOnly, h.Users.PutRole)

	imageRouter := router.Group("/images", authenticate)
	imageRouter.Get("/", anyRole, h.Images.ListImages)
	imageRouter.Post("/", anyRole, h.Images.PostImage)
	imageRouter.Get("/:id", anyRole, h.Images.GetImage)
	imageRouter.Patch("/:id", anyRole, h.Images.PatchImage)
	imageRouter.Post("/:id/tags", anyRole, h.Images.PostImageTag)
	imageRouter.Delete("/:id", anyRole, h.Images.DeleteImage)

	tagRouter := router.Group("/tags", authenticate)
	tagRouter.Get("/", anyRole, h.Tags.ListTags)
	tagRouter.Post("/", anyRole, h.Tags.PostTag)
	tagRouter.Get("/name/:name", anyRole, h.Tags.GetTagByName)
	tagRouter.Delete("/name/:name", adminOrModerator, h.Tags.DeleteTagByName)
	tagRouter.Get("/:id", anyRole, h.Tags.GetTag)
	tagRouter.Put("/:id", adminOrModerator, h.Tags.PutTag)
	tagRouter.Delete("/:id", adminOrModerator, h.Tags.DeleteTag)

	commentRouter := router.Group("/comments", authenticate)
	commentRouter.Post("/", anyRole, h.Comments.PostComment)
	commentRouter.Get("/", adminOnly, h.Comments.ListComments)
	commentRouter.Get("/image/:imageId", anyRole, h.Comments.ListImageComments)
	commentRouter.Get("/:id", anyRole, h.Comments.GetComment)
	commentRouter.Patch("/:id", anyRole, h.Comments.PatchComment)
	commentRouter.Delete("/:id", adminOrModerator, h.Comments.DeleteComment)

	ratingRouter := router.Group("/ratings", authenticate)
	ratingRouter.Post("/", anyRole, h.Ratings.PostRating)
	ratingRouter.Get("/me", anyRole, h.Ratings.GetMyRatings)
	ratingRouter.Get("/top", anyRole, h.Ratings.GetTopRated)
	ratingRouter.Get("/image/:imageId", anyRole, h.Ratings.GetImageScore)
	ratingRouter.Get("/user/:userId/image/:imageId", adminOnly, h.Ratings.GetUserImageRating)
	ratingRouter.Get("/:id", anyRole, h.Ratings.GetRating)
	ratingRouter.Delete("/:id", adminOrModerator, h.Ratings.DeleteRating)
}
