package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// ActorKey is the locals key carrying the acting user's name.
const ActorKey = "actor"

// Actor resolves who is performing the request. Authentication lives in
// front of this service; the upstream proxy forwards the user name in a
// header, and every composer operation receives it as an explicit
// parameter rather than reading ambient session state.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := c.Get("X-Actor-Username")
		if actor == "" {
			actor = "anonymous"
		}
		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by the Actor middleware.
func ActorFrom(c *fiber.Ctx) string {
	if actor, ok := c.Locals(ActorKey).(string); ok && actor != "" {
		return actor
	}
	return "anonymous"
}
