package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"

	"github.com/kart-io/tutor-x/pkg/utils/validator"
)

var installValidator sync.Once

// useTutorValidator 将 gin 的绑定引擎替换为带 notblank 规则和中英韩翻译的校验器。
// 请求结构体的 binding 标签依赖这些规则，任何 TutorHandler 创建前都必须完成替换。
func useTutorValidator() {
	installValidator.Do(func() {
		binding.Validator = validator.New()
	})
}
