// Package projectindex keeps a per-user, in-memory search index over the
// projects shown on a user's dashboard.
//
// An Index is built in one pass from a snapshot of the user's projects and is
// never modified afterwards. Rebuilding means building a new Index and
// swapping it into the Store, so readers always see one complete snapshot.
// Queries match whole lowercase tokens from the project name and description,
// and every query token must match (AND). Client and status filters narrow
// the result. Any lookup that finds nothing returns an empty result, never an
// error.
package projectindex
