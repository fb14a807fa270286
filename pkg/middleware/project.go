package middleware

import (
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/magicscuts/errors"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/magicscuts/internal/usecase/errors"
	projectUsecase "github.com/johnquangdev/magicscuts/internal/usecase/project"
)

// Echo context keys set by the middlewares in this package
const (
	ProjectKey = "project"
	BalanceKey = "balance"
)

// RequireProjectOwner middleware: loads the project named by :id and only
// lets its owner through
func RequireProjectOwner(service projectUsecase.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			projectID := c.Param("id")
			if projectID == "" || len(projectID) > projectUsecase.MaxProjectIDLength {
				return errors.ErrInvalidArgument("project id must be 1-64 characters")
			}
			userID, ok := c.Get("user_id").(uuid.UUID)
			if !ok {
				return errors.ErrUnauthenticated()
			}
			project, err := service.GetProject(c.Request().Context(), userID, projectID)
			switch {
			case stdErrors.Is(err, entities.ErrProjectNotFound):
				return errors.ErrProjectNotFound(projectID)
			case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
				return errors.ErrProjectAccessDenied(projectID)
			case err != nil:
				return err
			}
			c.Set(ProjectKey, project)
			return next(c)
		}
	}
}

// RequireCredits middleware: rejects callers whose balance is below amount
// before any upload is read, and exposes the balance to the handler
func RequireCredits(service projectUsecase.Service, amount int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get("user_id").(uuid.UUID)
			if !ok {
				return errors.ErrUnauthenticated()
			}
			balance, err := service.GetBalance(c.Request().Context(), userID)
			if err != nil {
				return err
			}
			if balance.Credits < amount {
				return errors.ErrInsufficientCredits()
			}
			c.Set(BalanceKey, balance)
			return next(c)
		}
	}
}
