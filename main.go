// main.go
package main

import cmd "github.com/martinhath/comere/cmd/comere"

// main starts the comere CLI by delegating to the cobra root command
// defined in the comere package.
func main() {
	cmd.Execute()
}
