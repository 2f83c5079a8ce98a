package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobboard/internal/jobs"
	"jobboard/pkg/models"
	"jobboard/pkg/utils"
)

const imageField = "Image"

func JobsIndexHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		listing, err := svc.List(c.Request().Context(), "")
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, listing)
	}
}

func JobDetailsHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		detail, err := svc.Detail(c.Request().Context(), principal(c), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, detail)
	}
}

func JobCreateFormHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := svc.CreateForm(c.Request().Context(), principal(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, form)
	}
}

// JobCreateHandler accepts a multipart form with an optional Image file
func JobCreateHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		in, image, closeImage, err := readJobForm(c)
		if err != nil {
			return err
		}
		defer closeImage()

		job, err := svc.Create(c.Request().Context(), principal(c), in, image)
		if err != nil {
			return err
		}
		requestLogger(c).Debug("job posted", map[string]interface{}{"job_id": job.ID})
		return c.Redirect(http.StatusFound, "/Jobs")
	}
}

func JobEditFormHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		form, err := svc.EditForm(c.Request().Context(), principal(c), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, form)
	}
}

func JobEditHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		in, image, closeImage, err := readJobForm(c)
		if err != nil {
			return err
		}
		defer closeImage()

		if _, err := svc.Edit(c.Request().Context(), principal(c), id, in, image); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/Jobs")
	}
}

func JobDeleteConfirmHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		listing, err := svc.DeleteConfirmation(c.Request().Context(), principal(c), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, listing)
	}
}

func JobDeleteHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), principal(c), id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/Jobs")
	}
}

// readJobForm binds the job fields and opens the uploaded image, if any.
// The returned close func is always safe to call.
func readJobForm(c echo.Context) (models.JobInput, *jobs.Image, func(), error) {
	noop := func() {}

	var in models.JobInput
	if err := bind(c, &in); err != nil {
		return in, nil, noop, err
	}
	if !isJSON(c) {
		deadline, err := parseDeadline(c.FormValue("ApplicationDeadline"))
		if err != nil {
			return in, nil, noop, err
		}
		in.ApplicationDeadline = deadline
	}

	fh, err := c.FormFile(imageField)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil, noop, nil
	case tooLarge(err):
		return in, nil, noop, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large")
	default:
		return in, nil, noop, utils.NewFieldValidationError(imageField, "The image could not be read.")
	}
	if fh.Size == 0 {
		return in, nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return in, nil, noop, utils.NewFieldValidationError(imageField, "The image could not be read.")
	}
	image := &jobs.Image{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	}
	return in, image, func() { f.Close() }, nil
}
