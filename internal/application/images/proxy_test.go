package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxy_URL(t *testing.T) {
	p := NewProxy("")
	assert.Equal(t,
		"https://wsrv.nl/?fit=cover&height=200&url=https%3A%2F%2Fexample.com%2Fa.jpg&width=200",
		p.URL("https://example.com/a.jpg", 200, 200, FitCover))
	assert.Equal(t,
		"https://wsrv.nl/?fit=inside&url=https%3A%2F%2Fexample.com%2Fa.jpg&width=600",
		p.URL("https://example.com/a.jpg", 600, 0, FitInside))

	custom := NewProxy("https://img.example.ge/resize")
	assert.Equal(t,
		"https://img.example.ge/resize?url=https%3A%2F%2Fexample.com%2Fa.jpg&width=80",
		custom.URL("https://example.com/a.jpg", 80, 0, ""))
}

func TestProxy_Owns(t *testing.T) {
	p := NewProxy("https://wsrv.nl/")
	assert.True(t, p.Owns(p.URL("https://example.com/a.jpg", 200, 200, FitCover)))
	assert.True(t, p.Owns("https://WSRV.nl/?url=x"))
	assert.False(t, p.Owns("https://example.com/a.jpg"))
	assert.False(t, p.Owns(""))

	assert.Equal(t, p.URL("x", 1, 1, ""), NewProxy("::bad::").URL("x", 1, 1, ""))
}
