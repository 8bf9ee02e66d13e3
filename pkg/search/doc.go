/*
Package search implements the search-and-copy engine for recorded calls.

	+---------------+
	|    Request    |
	| (date, token) |
	+-------+-------+
	        |
	+-------+-------+      +-------------+
	|    Engine     +----->|    Sink     |
	| (walk, copy)  |      | Info/Progr. |
	+-------+-------+      +-------------+
	        |
	+-------+-------+
	|  CopyOutcome  |
	+---------------+

🎯 Purpose:
- Builds the candidate directories for one root and one date
- Walks every file below them and matches names against the protocol token
- Copies matches into the destination directory

🔄 Flow:
1. Ask the root's layout for its paths (legacy: two padded sub-roots, timed: one)
2. Announce each path before checking it exists
3. Walk present paths with a doublestar "**" glob
4. Copy matches, recording failures per file
5. Report "not found" when nothing was copied

⚡ Notes:
- A missing timed directory ends the invocation with no further events
- Matching is a case-sensitive substring test; an empty token matches all files
- Collisions in the destination are overwritten
- The engine never validates the token and never cancels mid-walk

🔍 Example:

	eng := search.NewEngine(nil)
	req, err := search.NewRequest(2025, 1, 1, "XYZ123", dest)
	out := eng.SearchAndCopy(ctx, req, root, sink)
*/
package search
