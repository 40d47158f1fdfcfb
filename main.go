package main

import "github.com/KaramelBytes/screentime-cli/cmd"

func main() {
	cmd.Execute()
}
