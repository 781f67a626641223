package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retroverse/internal/models"
)

// Session keys for the signed-in user.
const (
	sessionUserID = "user_id"
	sessionRole   = "user_role"
	sessionName   = "user_name"
	sessionEmail  = "user_email"
	sessionAvatar = "user_avatar"
)

const callerLocalKey = "caller"

// Caller is the identity of the signed-in user, resolved from the session
// cookie once per request and carried in the Fiber context.
type Caller struct {
	UserID primitive.ObjectID
	Role   models.Role
	Name   string
	Email  string
	Avatar string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role.IsAdmin()
}

// SignIn writes the user's identity into the request's session.
func SignIn(c *fiber.Ctx, store *session.Store, user *models.User) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserID, user.ID.Hex())
	sess.Set(sessionRole, string(user.Role))
	sess.Set(sessionName, user.FullName)
	sess.Set(sessionEmail, user.Email)
	sess.Set(sessionAvatar, user.ProfilePictureURL)
	return sess.Save()
}

// SignOut destroys the request's session.
func SignOut(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// RefreshProfile updates the cached display fields after a profile edit so
// the next request sees the new name and avatar without a re-login.
func RefreshProfile(c *fiber.Ctx, store *session.Store, user *models.User) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionName, user.FullName)
	sess.Set(sessionAvatar, user.ProfilePictureURL)
	return sess.Save()
}

// callerFromSession reads the caller out of the session, if any.
func callerFromSession(c *fiber.Ctx, store *session.Store) (Caller, bool) {
	sess, err := store.Get(c)
	if err != nil {
		log.Printf("Session lookup failed: %v", err)
		return Caller{}, false
	}
	rawID, _ := sess.Get(sessionUserID).(string)
	if rawID == "" {
		return Caller{}, false
	}
	userID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return Caller{}, false
	}
	return Caller{
		UserID: userID,
		Role:   models.ParseRole(stringOr(sess.Get(sessionRole))),
		Name:   stringOr(sess.Get(sessionName)),
		Email:  stringOr(sess.Get(sessionEmail)),
		Avatar: stringOr(sess.Get(sessionAvatar)),
	}, true
}

func stringOr(v interface{}) string {
	s, _ := v.(string)
	return s
}

// LoadCaller resolves the caller for every request and stores it in Locals.
// Anonymous requests pass through with no caller set.
func LoadCaller(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if caller, ok := callerFromSession(c, store); ok {
			c.Locals(callerLocalKey, caller)
		}
		return c.Next()
	}
}

// CallerFrom returns the caller stored by LoadCaller, if the request is
// signed in.
func CallerFrom(c *fiber.Ctx) (Caller, bool) {
	caller, ok := c.Locals(callerLocalKey).(Caller)
	return caller, ok
}

// RequireUser rejects requests that carry no signed-in session.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CallerFrom(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Sign in required",
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects requests whose caller does not hold the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Sign in required",
			})
		}
		if !caller.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}
