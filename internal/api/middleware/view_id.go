package middleware

import (
	"github.com/gin-gonic/gin"

	"dreamycv/internal/kvstore"
)

const viewIDKey = "viewID"

// ViewIDMiddleware 把发起请求的视图（标签页）标识绑定到请求上下文。
// 存储层用它给每次写入打上来源标记，变更通知按来源过滤，
// 这样视图不会被自己的写入回调。没报头的请求退化为按请求关联 ID。
func ViewIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-View-ID")
		if id == "" {
			id = GetCorrelationID(c)
		}

		c.Set(viewIDKey, id)
		c.Request = c.Request.WithContext(kvstore.WithOrigin(c.Request.Context(), id))

		c.Next()
	}
}

// GetViewID 从上下文中取出视图 ID。
func GetViewID(c *gin.Context) string {
	if value, ok := c.Get(viewIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
