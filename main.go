package main

import "github.com/blogem/usermgmt/cmd"

func main() {
	cmd.Execute()
}
