// Package session owns one generation run of a Ninja build file.
//
// A Session holds everything the run accumulates: the global variable
// table, the rule table, the target registry and the set of generator
// dependencies. Every declaration goes through it so the graph stays
// consistent, and it writes to a temporary file that only replaces the real
// build file when Close succeeds:
//
//	s, err := session.New(ctx, session.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer s.Abort() // no-op once Close has run
//
//	// ... declare variables, rules and build statements ...
//
//	return s.Close()
//
// A Session is not safe for concurrent use.
package session
