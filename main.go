package main

import "xyzrss/cmd"

// @title           xyzrss
// @version         1.0.0
// @description     RSS bridge for xiaoyuzhoufm.com podcasts
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
