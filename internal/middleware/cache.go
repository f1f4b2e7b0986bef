package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	planMetaKey  = "plan_meta"
	planStartKey = "plan_start"
)

// WithResponseMeta stamps each request with a start time and a metadata map
// that plan endpoints fill in before rendering the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(planStartKey, time.Now())
		c.Set(planMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the plan was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if meta := metaMap(c); meta != nil {
		meta["cache_hit"] = hit
	}
}

// ExtractMeta finalises and returns the metadata for the current response.
// Elapsed time is computed here, at render time, so the envelope carries the
// time actually spent producing the plan.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	meta := metaMap(c)
	if meta == nil {
		return nil
	}
	if raw, ok := c.Get(planStartKey); ok {
		if start, ok := raw.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
	return meta
}

func metaMap(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if raw, ok := c.Get(planMetaKey); ok {
		if meta, ok := raw.(map[string]interface{}); ok {
			return meta
		}
	}
	return nil
}
