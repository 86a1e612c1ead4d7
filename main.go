package main

import "attendance-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
