// Package web embeds the query page and its script.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// RegisterRoutes serves the page at / and its assets under /static.
func RegisterRoutes(r *gin.Engine) {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}

	r.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(assets, "index.html")
		if err != nil {
			c.String(http.StatusNotFound, "File not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	r.StaticFS("/static", http.FS(assets))
}
