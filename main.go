package main

import "go.infratographer.com/loadbalancer-upgrade-azure/cmd"

func main() {
	cmd.Execute()
}
