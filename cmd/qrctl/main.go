package main

import "github.com/qrfoundry/qrfoundry/internal/qrctl"

func main() {
	qrctl.Execute()
}
