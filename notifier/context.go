package notifier

import "github.com/gin-gonic/gin"

const dispatcherKey = "notifier"

// SetToContext injeta o dispatcher no contexto do gin (mesmo padrão do db).
func SetToContext(d *Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dispatcherKey, d)
		c.Next()
	}
}

func FromContext(c *gin.Context) *Dispatcher {
	v, ok := c.Get(dispatcherKey)
	if !ok {
		return nil
	}
	d, _ := v.(*Dispatcher)
	return d
}
