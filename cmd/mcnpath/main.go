// cmd/mcnpath/main.go
//
// Entry point. All behavior lives in internal/cli; this just hands off
// so the commands stay testable without a binary.

package main

import "mcnpath/internal/cli"

func main() {
	cli.Execute()
}
