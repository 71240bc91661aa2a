package main

import "github.com/KaramelBytes/tabscan-cli/cmd"

func main() {
	cmd.Execute()
}
