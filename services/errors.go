package services

import "errors"

var (
	// ErrNotFound 请求的实体不存在(或不属于当前用户)
	ErrNotFound = errors.New("not found")
)
