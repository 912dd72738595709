// Package biz 提供 tutor 服务的业务逻辑层。
//
// 一次对话轮次依次经过以下组件：
//   - Classifier: 调用一次模型，把问题归入五种教学类别之一
//   - ExcerptSelector: 从班级文档中截取与问题或当前页相关的片段
//   - Coach: 按类别选择教学角色提示词，结合片段与最近历史生成回复
//   - TutorService: 组合以上组件并持久化提问记录
//
// 分类失败回退为 KNOWLEDGE，生成失败向上返回，见 ClassificationPolicy 与 GenerationPolicy。
package biz
