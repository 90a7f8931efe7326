// Licensed under the Apache License, Version 2.0
// Details: https://raw.githubusercontent.com/square/flowlimit/master/LICENSE

// Package implements a CLI for administering and exercising the flowlimit service.
package main

import (
	"os"

	"github.com/square/flowlimit/cmd/client/client"
)

func main() {
	client.RunClient(os.Args[1:])
}
