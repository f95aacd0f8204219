package main

import (
	fdk "github.com/fnproject/fdk-go"
	"github.com/oradbops/fusion-automation/function/reportTrigger/handler"
)

func init() {
	handler.InitializeClients()
}
func main() {
	fdk.Handle(fdk.HandlerFunc(handler.Handler))
}
