package main

import "github.com/frahmantamala/callcenter-admin/cmd"

func main() {
	cmd.Execute()
}
