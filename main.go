// Copyright © 2026 The apexls authors

package main

import "github.com/luthersystems/apexls/cmd"

func main() {
	cmd.Execute()
}
