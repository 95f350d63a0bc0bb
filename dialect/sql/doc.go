// Package sql provides the database/sql driver and the small statement
// builders used by the SQL store and the schema check.
//
// # Builders
//
//   - Builder: SQL string builder with identifier quoting and placeholders
//   - UpdateBuilder: UPDATE ... SET ... WHERE
//   - Selector: SELECT ... FROM ... WHERE ... ORDER BY
//
// # Dialect Support
//
// Quoting and placeholders follow the dialect:
//
//	sql.Dialect(dialect.Postgres).Update("users").Set("activated_at", now).Where(sql.EQ("id", 1))
//	// UPDATE "users" SET "activated_at" = $1 WHERE "id" = $2
//
//	sql.Dialect(dialect.MySQL).Select("id").From("users").Where(sql.NotNull("activated_at"))
//	// SELECT `id` FROM `users` WHERE `activated_at` IS NOT NULL
//
// # Predicates
//
//	sql.EQ("id", 1)             // id = ?
//	sql.IsNull("closed_at")     // closed_at IS NULL
//	sql.NotNull("activated_at") // activated_at IS NOT NULL
//	sql.And(p1, p2)             // (p1 AND p2)
package sql
