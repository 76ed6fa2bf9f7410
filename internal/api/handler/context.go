package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/api/metrics"
	"github.com/epicevents/crm/internal/api/middleware"
	"github.com/epicevents/crm/internal/core/domain"
)

// identityFrom returns the identity injected by the Auth middleware, or nil.
// The services turn a nil identity into domain.ErrNotAuthenticated.
func identityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(middleware.ContextIdentity).(*domain.Identity)
	return identity
}

func tokenFrom(c echo.Context) string {
	token, _ := c.Get(middleware.ContextToken).(string)
	return token
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// queryBool reads an optional boolean query parameter.
func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Reason: "must be true or false"}
	}
	return &v, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return &domain.ValidationError{Reason: err.Error()}
	}
	return nil
}

// observe counts the outcome of an operation and passes err through.
func observe(entity, operation string, err error) error {
	metrics.OperationsTotal.WithLabelValues(entity, operation, metrics.Result(err)).Inc()
	return err
}
