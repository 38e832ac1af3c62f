package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

// RequirePermission lets the request through only when the caller's role
// grants every one of perms.
func RequirePermission(perms ...user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := ActorFromContext(r)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			for _, perm := range perms {
				if !user.HasPermission(actor.Role, perm) {
					response.HandleError(w, user.ErrInsufficientPermissions)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
