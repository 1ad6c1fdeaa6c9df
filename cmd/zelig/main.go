// Command zelig is a terminal chat client for the Zelig Marrakech guide.
package main

import "github.com/atlasai/zelig/internal/commands"

func main() {
	commands.Execute()
}
