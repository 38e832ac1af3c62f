package postgresql

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

func userScope(userID string) user.Scope {
	return user.Scope{UserID: &userID}
}

// scopeClause turns a read scope into WHERE conditions numbered from $1.
func scopeClause(scope user.Scope, userColumn, officeColumn string) ([]string, []interface{}) {
	var where []string
	var args []interface{}
	if scope.IsUnscoped() {
		return where, args
	}
	if scope.OfficeID != nil {
		args = append(args, *scope.OfficeID)
		where = append(where, fmt.Sprintf("%s = $%d", officeColumn, len(args)))
	}
	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		where = append(where, fmt.Sprintf("%s = $%d", userColumn, len(args)))
	}
	return where, args
}

func whereSQL(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}
