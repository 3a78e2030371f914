package sqlite

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/stlspec/server/dao"
	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/google/uuid"
)

// conversions between Go model types and the values actually stored in table
// columns. UUIDs are stored as their string form, times as Unix timestamps,
// roles and targets as their string names, and emails as plain addresses with
// "" for none.

func convertToDB_UUID(id uuid.UUID) string {
	return id.String()
}

func convertFromDB_UUID(s string, id *uuid.UUID) error {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(v int64, t *time.Time) error {
	*t = time.Unix(v, 0)
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, r *dao.Role) error {
	parsed, err := dao.ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, email **mail.Address) error {
	if s == "" {
		*email = nil
		return nil
	}

	parsed, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("not a valid address: %w", err)
	}
	*email = parsed
	return nil
}

func convertToDB_Target(t trans.Target) string {
	return t.String()
}

func convertFromDB_Target(s string, t *trans.Target) error {
	parsed, err := trans.ParseTarget(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
