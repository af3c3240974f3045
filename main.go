package main

import "github.com/guimove/palletfit/cmd"

func main() {
	cmd.Execute()
}
