// Package main is the entry point for the Tutor-X tutoring service.
//
//	@title			Tutor-X API
//	@version		1.0
//	@description	AI 辅导服务：问题分类、文档片段检索与分角色引导式回复
//	@termsOfService	https://github.com/kart-io/tutor-x
//
//	@contact.name	Tutor-X Team
//	@contact.url	https://github.com/kart-io/tutor-x
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:8080
//	@BasePath		/
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/tutor-x/internal/tutor"
)

func main() {
	tutor.NewApp().Run()
}
