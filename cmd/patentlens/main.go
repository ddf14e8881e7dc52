// The patentlens binary is the management CLI: migrations, config checks
// and version information.
package main

import "github.com/turtacn/PatentLens/internal/interfaces/cli"

func main() {
	cli.Execute()
}
