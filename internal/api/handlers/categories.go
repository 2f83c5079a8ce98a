package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobboard/internal/categories"
	"jobboard/pkg/models"
)

func CategoriesIndexHandler(svc *categories.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), principal(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}
}

func CategoryCreateHandler(svc *categories.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in models.CategoryInput
		if err := bind(c, &in); err != nil {
			return err
		}
		category, err := svc.Propose(c.Request().Context(), principal(c), in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, category)
	}
}

func CategoryApproveHandler(svc *categories.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Approve(c.Request().Context(), principal(c), id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/JobCategories")
	}
}
