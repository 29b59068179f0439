// Command flip-todo hosts the todo example on a flip store. Actions come from
// files, tailed action logs or a Redis channel, and the list is rendered to
// stdout after every change.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
