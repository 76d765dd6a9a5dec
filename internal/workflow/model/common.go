// Package model 定义工作流层的输入/输出模型
package model

// ImageInput 调用方上传的原始图像
type ImageInput struct {
	// Data 原始图像字节（HTTP 层负责 base64 解码）
	Data []byte
	// MIMEType 图像类型，如 image/jpeg
	MIMEType string
}

// Empty 判断图像输入是否为空
func (i ImageInput) Empty() bool {
	return len(i.Data) == 0
}
