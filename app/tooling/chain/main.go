package main

import "github.com/minechain/minechain/app/tooling/chain/cmd"

func main() {
	cmd.Execute()
}
