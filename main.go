package main

import "github.com/theirongolddev/halos/cmd"

func main() {
	cmd.Execute()
}
