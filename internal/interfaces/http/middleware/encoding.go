package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Body 确保请求体是 UTF-8 编码的中间件
// Windows 中文环境下 curl 可能以 GBK（代码页 936）发送请求体，
// 检测到非 UTF-8 内容时尝试按 GBK 解码后再交给后续处理
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body.Close()

		if len(bodyBytes) == 0 || utf8.Valid(bodyBytes) {
			restoreBody(c, bodyBytes)
			c.Next()
			return
		}

		decoded, err := gbkToUTF8(bodyBytes)
		if err != nil || !utf8.Valid(decoded) {
			// 解码失败，保留原始数据
			restoreBody(c, bodyBytes)
			c.Next()
			return
		}

		restoreBody(c, decoded)
		c.Request.ContentLength = int64(len(decoded))
		c.Next()
	}
}

// restoreBody 将字节重新放回请求体
func restoreBody(c *gin.Context, body []byte) {
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
}

// gbkToUTF8 将 GBK 编码的字节转换为 UTF-8
func gbkToUTF8(gbkBytes []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(gbkBytes), simplifiedchinese.GBK.NewDecoder())
	return io.ReadAll(reader)
}
