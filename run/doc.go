/*
Package run implements the mdq command line workflow: parse the query, read
the inputs, select and write the results.

All I/O goes through an OsFacade so the workflow can be driven from tests:

	ok := run.Run(run.Options{Selectors: "# usage | - *"}, realOS{}, logger)
*/
package run
