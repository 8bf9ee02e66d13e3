/*
Package operation runs a complete protocol search across every storage root
that covers the requested year.

	+-------------+
	|    Input    |
	| (user/date) |
	+------+------+
	       |
	+------+------+
	|  Searcher   |
	| (validate)  |
	+------+------+
	       |
	+------+------+
	|   Engine    | x N roots, in order
	+------+------+
	       |
	+------+------+
	|   Report    |
	+-------------+

🎯 Purpose:
- Checks the allow-list before anything else
- Validates date, protocol and year range
- Resolves the roots for the year and invokes the engine once per root
- Folds the outcomes into one Report with a single end state

🔄 End states:
- denied: user not on the allow-list (ErrPermissionDenied)
- invalid_input: missing fields, bad date, year out of range (ErrInvalidInput)
- nothing_configured: no root covers the year (ErrNoConfiguredRoots)
- found: at least one root copied a file
- not_found: every root was searched and nothing was copied

⚡ Runner:
An async Runner executes the operation on one goroutine and pumps its events
to the caller's sink from another, so the sink never sees concurrent calls.
Task.Wait returns once the report is ready and every event was delivered.

🔍 Example:

	s, err := operation.New(operation.Options{AllowList: path, Resolver: resolver})
	task := operation.NewRunner(true, 64).Start(ctx, s.Operation(in), sink)
	report, err := task.Wait()
*/
package operation
