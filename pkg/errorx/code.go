package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	InvalidInput    Code = 100001
	BadResponse     Code = 100002
	Forbidden       Code = 100003
	NotFound        Code = 100004
	Unauthenticated Code = 100005
	Conflict        Code = 100006
	Internal        Code = 100007
	Unavailable     Code = 100008

	// Task codes
	InvalidAnswer Code = 200001

	// Draw codes
	EmptyPool Code = 300001
)
