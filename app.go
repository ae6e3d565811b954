package main

import "github.com/masmgr/gitgraph-go/cmd"

func main() {
	cmd.Run()
}
