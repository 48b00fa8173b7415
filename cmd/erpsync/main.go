package main

import "github.com/erp/syncengine/cmd/erpsync/cmd"

func main() {
	cmd.Execute()
}
