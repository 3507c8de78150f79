// Package errors turns failures from the pagekit packages into structured,
// actionable messages for the command line.
//
// # Error Categories
//
// Errors are organized into categories:
//   - selector: a CSS selector that could not be parsed
//   - url: a malformed or relative URL, or a rejected history write
//   - datetime: a timestamp or time zone that could not be read
//   - request: a failed JSON exchange with a server
//   - config: an unreadable or invalid pagekit.json
//   - cli: bad command-line arguments
//
// # Kinds
//
// Each known failure has a kind (e.g. "selector.syntax") that maps to a
// category, a short message and a hint. Classify maps errors returned by
// the pagekit packages to their kind.
//
// # Usage
//
//	sel, err := dom.Compile(`div[name="x]`)
//	if err != nil {
//	    errors.PrintError(err)
//	}
//	// Output:
//	// ERROR [selector]: Invalid CSS selector
//	//
//	//     div[name="x]
//	//              ^
//	//
//	//   unterminated string at offset 9
//	//
//	//   Hint: Check for unbalanced brackets or quotes
package errors
