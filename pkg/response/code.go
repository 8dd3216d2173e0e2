package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists      = 10001
	ErrUserNotFound    = 10002
	ErrAuthFailed      = 10003
	ErrTokenInvalid    = 10004
	ErrNoPermission    = 10005
	ErrUserNotVerified = 10006
	ErrOTPInvalid      = 10007
	ErrOTPTooFrequent  = 10008

	// 魔方模块错误 200xx
	ErrCubeNotFound = 20001
	ErrCubeInactive = 20002

	// 广告模块错误 210xx
	ErrAdNotFound = 21001
	ErrAdInactive = 21002

	// 抢购模块错误 220xx
	ErrGrabQuotaExceeded = 22001
	ErrGrabDuplicate     = 22002
	ErrGrabNotFound      = 22003

	// 租户/世界模块错误 230xx
	ErrCorporateNotFound = 23001
	ErrWorldNotFound     = 23002
	ErrCommunityNotFound = 23003

	// 聊天模块错误 240xx
	ErrChatRoomNotFound = 24001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrNotFound        = 50004
)
