package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobboard/internal/applications"
	"jobboard/pkg/models"
)

// ApplicationsIndexHandler lists the signed in job seeker's applications
func ApplicationsIndexHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		apps, err := svc.ListForSeeker(c.Request().Context(), principal(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apps)
	}
}

// EmployerIndexHandler lists applications to the signed in employer's jobs
func EmployerIndexHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		apps, err := svc.ListForEmployer(c.Request().Context(), principal(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apps)
	}
}

func ApplicationCreateFormHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID, err := idParam(c, "jobId")
		if err != nil {
			return err
		}
		form, err := svc.NewForm(c.Request().Context(), principal(c), jobID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, form)
	}
}

func ApplicationCreateHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in models.ApplicationInput
		if err := bind(c, &in); err != nil {
			return err
		}
		app, err := svc.Submit(c.Request().Context(), principal(c), in)
		if err != nil {
			return err
		}
		requestLogger(c).Debug("application stored", map[string]interface{}{"application_id": app.ID})
		return c.Redirect(http.StatusFound, "/Applications")
	}
}

func ApplicationApproveHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Approve(c.Request().Context(), principal(c), id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/Applications/EmployerIndex")
	}
}

func ApplicationRejectHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Reject(c.Request().Context(), principal(c), id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/Applications/EmployerIndex")
	}
}

func ApplicationDeleteHandler(svc *applications.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), principal(c), id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/Applications")
	}
}
