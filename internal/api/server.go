package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/metrics"
	"github.com/Nirmalamangrati/BackendOfPostflow/internal/service"
)

// Deps wires the facade to the rest of the system.
type Deps struct {
	Verifier TokenVerifier
	Users    *service.UserService
	Friends  *service.FriendService
	Posts    *service.PostService
	Messages *service.MessageService
	Presence PresenceReader
	Notifier service.Notifier
	Socket   func(*websocket.Conn)
	Log      *zap.SugaredLogger
}

func NewServer(d Deps) *fiber.App {
	app := fiber.New()
	app.Use(fiberlogger.New())

	h := &Handlers{
		users:    d.Users,
		friends:  d.Friends,
		posts:    d.Posts,
		messages: d.Messages,
		presence: d.Presence,
		notifier: d.Notifier,
		validate: validator.New(),
		log:      d.Log,
	}
	authRequired := RequireAuth(d.Verifier)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(d.Socket))

	users := app.Group("/api/users")
	users.Post("/register", h.register)
	users.Post("/login", h.login)
	users.Put("/change-password", authRequired, h.changePassword)

	msgs := app.Group("/api/messages", authRequired)
	msgs.Post("/", h.sendMessage)
	msgs.Get("/:friendId", h.history)
	msgs.Put("/:messageId", h.editMessage)
	msgs.Delete("/:messageId", h.deleteMessage)

	friends := app.Group("/api/friends", authRequired)
	friends.Get("/all", h.directory)
	friends.Get("/get-friend-requests", h.pendingRequests)
	friends.Get("/list", h.listFriends)
	friends.Post("/request/:id", h.friendRequest)
	friends.Post("/accept/:id", h.acceptFriend)
	friends.Post("/reject/:id", h.rejectFriend)

	app.Get("/posts", h.listPosts)
	posts := app.Group("/posts", authRequired)
	posts.Post("/", h.createPost)
	posts.Put("/:id", h.updatePost)
	posts.Delete("/:id", h.deletePost)
	posts.Post("/:id/like", h.likePost)
	posts.Post("/:id/comment", h.addComment)
	posts.Put("/:postId/comment/:commentId", h.editComment)
	posts.Delete("/:postId/comment/:commentId", h.deleteComment)

	app.Get("/api/presence/:userId", authRequired, h.presenceStatus)
	app.Post("/notify", authRequired, h.notify)

	return app
}
