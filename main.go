package main

import "github.com/cmmoran/equalgen/cmd"

func main() {
	cmd.Execute()
}
