// Package testdb provides migrated databases for tests.
//
// By default every call to Open returns a private in-memory SQLite database
// with the full schema applied, so tests can run in parallel without
// cleanup. When SCRY_TEST_DATABASE_URL is set, Open connects to that
// PostgreSQL database instead; tests then isolate themselves by using fresh
// course ids.
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.Open(t)
//	    cards := sqlstore.NewCardStore(db, nil)
//	    ...
//	}
package testdb
