// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"os/user"

	"carlos/internal/config"
	"carlos/repl"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	fmt.Printf("Welcome to the Carlos REPL, %s!\n", currentUser.Username)
	fmt.Println("Each line is compiled as a program; its optimized tuples are printed.")
	repl.Start(os.Stdin, os.Stdout, config.Defaults)
}
