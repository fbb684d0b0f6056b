package sqldb

import (
	"strings"

	"github.com/martijn/clientdb/internal/core/domain"
)

// searchColumns maps each client search criterion to its column.
var searchColumns = []struct {
	column string
	value  func(domain.ClientSearch) *string
}{
	{"c.first_name", func(s domain.ClientSearch) *string { return s.FirstName }},
	{"c.surname", func(s domain.ClientSearch) *string { return s.Surname }},
	{"c.email", func(s domain.ClientSearch) *string { return s.Email }},
}

// updateColumns maps each updatable client field to its column.
var updateColumns = []struct {
	column string
	value  func(domain.ClientUpdate) *string
}{
	{"first_name", func(u domain.ClientUpdate) *string { return u.FirstName }},
	{"surname", func(u domain.ClientUpdate) *string { return u.Surname }},
	{"email", func(u domain.ClientUpdate) *string { return u.Email }},
}

// BuildSearchQuery builds the client id lookup for a search. Criteria that
// are nil add no predicate; the rest are ANDed as LIKE patterns.
func BuildSearchQuery(s domain.ClientSearch) (string, []interface{}) {
	query := `SELECT c.client_id FROM clients c WHERE 1 = 1`
	var args []interface{}

	for _, col := range searchColumns {
		if v := col.value(s); v != nil {
			query += " AND " + col.column + " LIKE ?"
			args = append(args, *v)
		}
	}

	if s.PhoneNumber != nil {
		query += ` AND EXISTS (
			SELECT 1 FROM phone_numbers pn
			WHERE pn.client_id = c.client_id AND pn.phone_number LIKE ?
		)`
		args = append(args, *s.PhoneNumber)
	}

	return query + " ORDER BY c.client_id", args
}

// BuildUpdateQuery builds a single UPDATE touching only the set fields.
// It returns an empty query when nothing is set.
func BuildUpdateQuery(id int64, u domain.ClientUpdate) (string, []interface{}) {
	var sets []string
	var args []interface{}

	for _, col := range updateColumns {
		if v := col.value(u); v != nil {
			sets = append(sets, col.column+" = ?")
			args = append(args, *v)
		}
	}

	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	return "UPDATE clients SET " + strings.Join(sets, ", ") + " WHERE client_id = ?", args
}
