package errs

import "errors"

// 领域错误（哨兵），service 层返回，handler 层统一映射为 HTTP 状态码和业务码。
// 所有错误都是终态的，内部不做重试。
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfVote           = errors.New("cannot trend-vote your own post")
)
