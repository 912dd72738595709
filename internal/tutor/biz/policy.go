package biz

import "fmt"

// ClassificationPolicy 决定分类调用失败时的处理方式。
type ClassificationPolicy string

const (
	// ClassificationFallback 失败时记录日志并返回 KNOWLEDGE。
	ClassificationFallback ClassificationPolicy = "fallback"
	// ClassificationPropagate 失败时返回 ErrTutorClassification。
	ClassificationPropagate ClassificationPolicy = "propagate"
)

// Validate 校验取值。
func (p ClassificationPolicy) Validate() error {
	switch p {
	case ClassificationFallback, ClassificationPropagate:
		return nil
	default:
		return fmt.Errorf("unknown classification policy %q", p)
	}
}

// GenerationPolicy 决定回复或总结生成失败时的处理方式。
type GenerationPolicy string

// GenerationPropagate 失败时把错误返回给调用方，不生成替代回复。
const GenerationPropagate GenerationPolicy = "propagate"

// Validate 校验取值。目前只支持 propagate。
func (p GenerationPolicy) Validate() error {
	if p != GenerationPropagate {
		return fmt.Errorf("unknown generation policy %q", p)
	}
	return nil
}
