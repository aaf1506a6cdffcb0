// Command setup creates the InstaVibe schema and loads the curated dataset.
//
//	setup schema   apply tables, indexes and the property graph
//	setup seed     insert the dataset in one transaction
//	setup all      schema then seed (default)
//	setup project  copy the graph into Neo4j
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	app := newApp()
	defer app.sync()

	if err := app.rootCmd().ExecuteContext(context.Background()); err != nil {
		// Errors before the logger exists would otherwise be silent
		if app.log == nil {
			fmt.Fprintln(os.Stderr, "setup:", err)
		}
		app.sync()
		os.Exit(1)
	}
}
