package middleware

import "github.com/danielgtaylor/huma/v2"

// Container накапливает middleware для очередного handler-а.
type Container struct {
	middlewares huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(m func(huma.Context, func(huma.Context))) {
	c.middlewares = append(c.middlewares, m)
}

// GetAllAndClear отдает накопленный набор и очищает контейнер.
func (c *Container) GetAllAndClear() huma.Middlewares {
	m := c.middlewares
	c.middlewares = nil
	return m
}
