package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// ActorFromContext builds the caller identity from the verified JWT claims
// user_id, role and office_id.
func ActorFromContext(r *http.Request) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Actor{}, user.ErrUnauthenticated
	}
	return actorFromClaims(claims)
}

func actorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, user.ErrUnauthenticated
	}

	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Actor{}, user.ErrUnauthenticated
	}

	actor := user.Actor{UserID: userID, Role: role}
	if officeID, ok := claims["office_id"].(string); ok && officeID != "" {
		actor.OfficeID = &officeID
	}
	return actor, nil
}
