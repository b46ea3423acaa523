package algo

import "errors"

var (
	// 错误：边不存在
	ErrNoEdge = errors.New("edge not exists")
)
