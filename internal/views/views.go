// Package views hands page data to whatever renders it. The storefront code
// builds a View and never touches HTML itself.
package views

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// View is the data of one rendered page.
type View struct {
	PageTitle string      `json:"page_title"`
	Path      string      `json:"path"`
	Data      interface{} `json:"data"`
}

// Presenter writes a View as the response.
type Presenter interface {
	Present(c *fiber.Ctx, template string, view View) error
}

// JSONPresenter renders views as JSON documents.
type JSONPresenter struct{}

func (JSONPresenter) Present(c *fiber.Ctx, _ string, view View) error {
	return c.JSON(view)
}

// TemplatePresenter renders views through the Fiber views engine configured
// on the app. Templates receive pageTitle, path and data.
type TemplatePresenter struct{}

func (TemplatePresenter) Present(c *fiber.Ctx, template string, view View) error {
	return c.Render(template, fiber.Map{
		"pageTitle": view.PageTitle,
		"path":      view.Path,
		"data":      view.Data,
	})
}

// NewEngine loads html/template files with the .html extension from dir.
func NewEngine(dir string) *html.Engine {
	return html.New(dir, ".html")
}
