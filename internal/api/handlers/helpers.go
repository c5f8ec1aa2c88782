package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"coopfarm/pkg/utils"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// CheckBlankFields rejects a request whose required string fields are
// blank. The field name in the error comes from the json tag so the
// client sees the name it sent.
func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() != reflect.String || strings.TrimSpace(field.String()) != "" {
			continue
		}
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if name == "" {
			name = strings.ToLower(typ.Field(i).Name)
		}
		return utils.ErrorHandler(errors.New("blank required field"), name+" is required")
	}
	return nil
}

// MissingMemberID returns the first id in ids with no matching member
// row, or "" when every id resolves.
func MissingMemberID(ctx context.Context, db *sql.DB, ids []string) (string, error) {
	for _, id := range ids {
		var exists bool
		if err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", id).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", nil
}

// RequireRole writes a 401/403 envelope and returns false unless the
// authenticated member holds one of the given roles.
func RequireRole(w http.ResponseWriter, r *http.Request, roles ...string) bool {
	role, ok := utils.RoleFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	utils.WriteError(w, fmt.Sprintf("access denied: requires %s role", strings.Join(roles, " or ")), http.StatusForbidden)
	return false
}

// ParseDate accepts the date formats the dashboard sends.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, DateTimeLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func OneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
